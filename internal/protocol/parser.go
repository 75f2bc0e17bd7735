package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Inbound is a device-initiated message. The concrete type is one of
// *SyncPilot, *FirstBeat, *CommandResponse or *UnknownMessage.
type Inbound interface {
	MethodName() string
	inbound()
}

// PilotState is the light state reported by syncPilot pushes and getPilot
// replies. Fields a light does not report are nil.
type PilotState struct {
	Mac     string `json:"mac,omitempty"`
	Rssi    *int   `json:"rssi,omitempty"`
	Src     string `json:"src,omitempty"`
	State   *bool  `json:"state,omitempty"`
	SceneID *int   `json:"sceneId,omitempty"`
	Speed   *int   `json:"speed,omitempty"`
	Temp    *int   `json:"temp,omitempty"`
	Dimming *int   `json:"dimming,omitempty"`
	R       *int   `json:"r,omitempty"`
	G       *int   `json:"g,omitempty"`
	B       *int   `json:"b,omitempty"`
	C       *int   `json:"c,omitempty"`
	W       *int   `json:"w,omitempty"`
}

// IsOn reports whether the light reported itself on
func (s PilotState) IsOn() bool {
	return s.State != nil && *s.State
}

// Mode returns a short description of the active light mode
func (s PilotState) Mode() string {
	switch {
	case s.SceneID != nil && *s.SceneID != 0:
		if name := SceneName(*s.SceneID); name != "" {
			return "scene " + name
		}
		return fmt.Sprintf("scene %d", *s.SceneID)
	case s.Temp != nil && *s.Temp != 0:
		return fmt.Sprintf("white %dK", *s.Temp)
	case s.R != nil && s.G != nil && s.B != nil:
		return fmt.Sprintf("rgb(%d,%d,%d)", *s.R, *s.G, *s.B)
	default:
		return "unknown"
	}
}

// SyncPilot is a light's state push. The listener stamps Timestamp and IP
// before forwarding it.
type SyncPilot struct {
	Method    string          `json:"method"`
	ID        int             `json:"id"`
	Env       string          `json:"env,omitempty"`
	Params    PilotState      `json:"params"`
	Timestamp time.Time       `json:"timestamp,omitzero"`
	IP        string          `json:"ip,omitempty"`
	Skipped   []string        `json:"skipped,omitempty"` // params fields with an unexpected type
	Raw       json.RawMessage `json:"-"`
}

// FirstBeatParams is the body of a boot beacon
type FirstBeatParams struct {
	Mac       string `json:"mac"`
	HomeID    int    `json:"homeId,omitempty"`
	FwVersion string `json:"fwVersion,omitempty"`
}

// FirstBeat is a light's boot beacon
type FirstBeat struct {
	Method  string          `json:"method"`
	ID      int             `json:"id"`
	Env     string          `json:"env,omitempty"`
	Params  FirstBeatParams `json:"params"`
	Skipped []string        `json:"skipped,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// CommandResponse is a reply to a command method seen on the listening socket
type CommandResponse struct {
	Method string          `json:"method"`
	ID     int             `json:"id"`
	Env    string          `json:"env,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
	Raw    json.RawMessage `json:"-"`
}

// UnknownMessage is any message with an absent or unrecognised method
type UnknownMessage struct {
	Method string          `json:"method,omitempty"`
	ID     int             `json:"id,omitempty"`
	Env    string          `json:"env,omitempty"`
	Raw    json.RawMessage `json:"raw"`
}

func (m *SyncPilot) MethodName() string       { return MethodSyncPilot }
func (m *FirstBeat) MethodName() string       { return MethodFirstBeat }
func (m *CommandResponse) MethodName() string { return m.Method }
func (m *UnknownMessage) MethodName() string  { return m.Method }

func (*SyncPilot) inbound()       {}
func (*FirstBeat) inbound()       {}
func (*CommandResponse) inbound() {}
func (*UnknownMessage) inbound()  {}

// envelope holds the fields common to every inbound datagram. Every field is
// kept raw so that a light sending an odd type for one of them still has its
// message classified.
type envelope struct {
	Method json.RawMessage `json:"method"`
	ID     json.RawMessage `json:"id"`
	Env    json.RawMessage `json:"env"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// ErrInvalidUTF8 is returned for datagrams that are not UTF-8 text
var ErrInvalidUTF8 = errors.New("message is not valid UTF-8")

// decodeEnvelope fails only when data is not UTF-8 JSON. JSON that is not an
// object yields an empty envelope.
func decodeEnvelope(data []byte) (*envelope, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	trimmed := bytes.TrimSpace(data)
	var env envelope
	if len(trimmed) > 0 && trimmed[0] != '{' && json.Valid(trimmed) {
		return &env, nil
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// text returns a JSON string value, or "" for any other JSON type
func text(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// number returns a JSON number as an int. Numeric strings are accepted;
// anything else is 0.
func number(raw json.RawMessage) int {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return int(f)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(text(raw))); err == nil {
		return n
	}
	return 0
}

// decodeParams fills dst from a params object one field at a time. Fields
// whose JSON type does not fit are left unset and returned, sorted.
func decodeParams[T any](params json.RawMessage, dst *T) []string {
	v := bytes.TrimSpace(params)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	if json.Unmarshal(v, dst) == nil {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(v, &fields); err != nil {
		return []string{"params"}
	}
	var skipped []string
	for name, value := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{name: value})
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		var check T
		if json.Unmarshal(one, &check) != nil {
			skipped = append(skipped, name)
			continue
		}
		_ = json.Unmarshal(one, dst)
	}
	sort.Strings(skipped)
	return skipped
}

// ParseInbound decodes a device-initiated datagram. Only datagrams that are
// not UTF-8 JSON fail; the variant is chosen by method alone.
func ParseInbound(data []byte) (Inbound, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message %s: %w", string(data), err)
	}
	raw := json.RawMessage(append([]byte(nil), data...))
	method := text(env.Method)
	id := number(env.ID)
	envName := text(env.Env)

	switch {
	case method == MethodSyncPilot:
		msg := &SyncPilot{Method: method, ID: id, Env: envName, Raw: raw}
		msg.Skipped = decodeParams(env.Params, &msg.Params)
		return msg, nil

	case method == MethodFirstBeat:
		msg := &FirstBeat{Method: method, ID: id, Env: envName, Raw: raw}
		msg.Skipped = decodeParams(env.Params, &msg.Params)
		return msg, nil

	case IsCommandMethod(method):
		return &CommandResponse{
			Method: method,
			ID:     id,
			Env:    envName,
			Result: env.Result,
			Error:  env.Error,
			Raw:    raw,
		}, nil

	default:
		return &UnknownMessage{Method: method, ID: id, Env: envName, Raw: raw}, nil
	}
}

// Response is a parsed reply to a command
type Response struct {
	Method string          `json:"method"`
	ID     int             `json:"id"`
	Env    string          `json:"env,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
	Raw    json.RawMessage `json:"-"`
}

// ParseResponse decodes a reply datagram
func ParseResponse(data []byte) (*Response, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	return &Response{
		Method: text(env.Method),
		ID:     number(env.ID),
		Env:    text(env.Env),
		Result: env.Result,
		Error:  env.Error,
		Raw:    json.RawMessage(append([]byte(nil), data...)),
	}, nil
}

// HasResult reports whether the reply carries a truthy result. null, false,
// any zero number and "" are not truthy.
func (r *Response) HasResult() bool {
	return truthy(r.Result)
}

// HasError reports whether the reply carries an error field
func (r *Response) HasError() bool {
	return len(r.Error) > 0 && !bytes.Equal(bytes.TrimSpace(r.Error), []byte("null"))
}

func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 'n', 'f':
		return false
	case '"':
		return string(v) != `""`
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			// Out of float64 range, so not zero
			return true
		}
		return f != 0
	}
	return true
}

// DecodeResult decodes the result body of a reply into T
func DecodeResult[T any](r *Response) (T, error) {
	var out T
	if len(r.Result) == 0 {
		return out, errors.New("reply has no result")
	}
	if err := json.Unmarshal(r.Result, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s result: %w", r.Method, err)
	}
	return out, nil
}

// DeviceErrorBody is the error object a light returns for rejected commands
type DeviceErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SuccessResult is the result body of set* commands, reset and reboot
type SuccessResult struct {
	Success bool `json:"success"`
}

// RegistrationResult is the result body of registration
type RegistrationResult struct {
	Mac     string `json:"mac"`
	Success bool   `json:"success"`
}

// PowerReading is the result body of getPower
type PowerReading struct {
	// Power is the current draw in milliwatts
	Power int `json:"power"`
}

// Watts returns the reading in watts
func (p PowerReading) Watts() float64 {
	return float64(p.Power) / 1000
}

// SystemConfig is the result body of getSystemConfig
type SystemConfig struct {
	Mac        string `json:"mac"`
	HomeID     int    `json:"homeId"`
	RoomID     int    `json:"roomId"`
	GroupID    int    `json:"groupId,omitempty"`
	ModuleName string `json:"moduleName,omitempty"`
	FwVersion  string `json:"fwVersion,omitempty"`
	TypeID     int    `json:"typeId,omitempty"`
	DrvConf    []int  `json:"drvConf,omitempty"`
	Ewf        []int  `json:"ewf,omitempty"`
	EwfHex     string `json:"ewfHex,omitempty"`
	Ping       int    `json:"ping,omitempty"`
}
