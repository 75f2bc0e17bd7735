package protocol

import (
	"encoding/json"
	"math/rand"
)

// Well-known ports
const (
	// ControlPort is the UDP port lights accept commands on
	ControlPort = 38899

	// ListenPort is the UDP port lights push syncPilot and firstBeat messages to
	ListenPort = 38900
)

// ProtocolVersion is sent in the version field of every outbound message
const ProtocolVersion = 1

// Method names
const (
	MethodSyncPilot       = "syncPilot"
	MethodFirstBeat       = "firstBeat"
	MethodRegistration    = "registration"
	MethodGetPilot        = "getPilot"
	MethodSetPilot        = "setPilot"
	MethodGetSystemConfig = "getSystemConfig"
	MethodSetSystemConfig = "setSystemConfig"
	MethodSetUserConfig   = "setUserConfig"
	MethodGetPower        = "getPower"
	MethodSetModelConfig  = "setModelConfig"
	MethodUpdateOta       = "updateOta"
	MethodReset           = "reset"
	MethodReboot          = "reboot"
)

// commandMethods are the methods a light echoes back in command replies
var commandMethods = map[string]bool{
	MethodRegistration:    true,
	MethodGetPilot:        true,
	MethodSetPilot:        true,
	MethodGetSystemConfig: true,
	MethodSetSystemConfig: true,
	MethodSetUserConfig:   true,
	MethodGetPower:        true,
	MethodSetModelConfig:  true,
	MethodUpdateOta:       true,
	MethodReset:           true,
	MethodReboot:          true,
}

// IsCommandMethod reports whether method is a controller-issued command
func IsCommandMethod(method string) bool {
	return commandMethods[method]
}

// maxMessageID bounds the random request id
const maxMessageID = 10000

// Message is an outbound datagram. Params and Result are mutually exclusive:
// commands carry Params, acknowledgements carry Result.
type Message struct {
	Method  string `json:"method"`
	Version int    `json:"version"`
	ID      int    `json:"id"`
	Env     string `json:"env,omitempty"`
	Params  any    `json:"params,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// newMessage creates a message with a fresh random id
func newMessage(method string, params any) *Message {
	return &Message{
		Method:  method,
		Version: ProtocolVersion,
		ID:      NewMessageID(),
		Params:  params,
	}
}

// NewMessageID returns a random request id in [1, 10000]
func NewMessageID() int {
	return rand.Intn(maxMessageID) + 1
}

// Encode serializes the message to its UTF-8 JSON wire form
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// String returns the JSON form of the message, or the method on encode failure
func (m *Message) String() string {
	data, err := m.Encode()
	if err != nil {
		return m.Method
	}
	return string(data)
}
