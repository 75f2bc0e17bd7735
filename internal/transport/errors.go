package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/wizlocal/internal/protocol"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeBind indicates the local socket could not be bound
	ErrTypeBind ErrorType = iota
	// ErrTypeTimeout indicates no reply arrived within the exchange window
	ErrTypeTimeout
	// ErrTypeSend indicates the datagram could not be sent
	ErrTypeSend
	// ErrTypeSocket indicates the socket failed while waiting for a reply
	ErrTypeSocket
	// ErrTypeParse indicates the reply was not valid JSON
	ErrTypeParse
	// ErrTypeProtocol indicates the reply had neither result nor error
	ErrTypeProtocol
	// ErrTypeDevice indicates the light replied with an error object
	ErrTypeDevice
	// ErrTypeCanceled indicates the caller's context ended before resolution
	ErrTypeCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeBind:
		return "Bind Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeSend:
		return "Send Error"
	case ErrTypeSocket:
		return "Socket Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeDevice:
		return "Device Error"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is the error variant of a Result
type Error struct {
	Type    ErrorType // Category of error
	Message string    // Message as reported to callers
	Err     error     // Underlying error (if any)
	Target  string    // Destination address (for context)
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the exchange could succeed
func (e *Error) Retryable() bool {
	switch e.Type {
	case ErrTypeTimeout, ErrTypeSend, ErrTypeSocket:
		return true
	default:
		return false
	}
}

func newBindError(err error) *Error {
	return &Error{Type: ErrTypeBind, Message: "bind failed: " + err.Error(), Err: err}
}

func newTimeoutError() *Error {
	return &Error{Type: ErrTypeTimeout, Message: "Timeout"}
}

func newSendError(err error) *Error {
	return &Error{Type: ErrTypeSend, Message: err.Error(), Err: err}
}

func newSocketError(err error) *Error {
	return &Error{Type: ErrTypeSocket, Message: err.Error(), Err: err}
}

func newParseError(raw []byte) *Error {
	return &Error{Type: ErrTypeParse, Message: "Failed to parse message " + string(raw)}
}

func newProtocolError() *Error {
	return &Error{Type: ErrTypeProtocol, Message: "Malformed response"}
}

// MalformedResponse is the protocol error for a result body that cannot be
// decoded into the expected payload
func MalformedResponse(cause error) *Error {
	return &Error{Type: ErrTypeProtocol, Message: "Malformed response", Err: cause}
}

// newDeviceError carries the light's error object re-serialized as JSON
func newDeviceError(body json.RawMessage) *Error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return &Error{Type: ErrTypeDevice, Message: string(body)}
	}
	return &Error{Type: ErrTypeDevice, Message: buf.String()}
}

func newCanceledError(err error) *Error {
	return &Error{Type: ErrTypeCanceled, Message: err.Error(), Err: err}
}

// TypeOf returns the ErrorType of err, if err is a transport error
func TypeOf(err error) (ErrorType, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Type, true
	}
	return 0, false
}

func isType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}

// IsTimeout checks if an error is an exchange timeout
func IsTimeout(err error) bool { return isType(err, ErrTypeTimeout) }

// IsBindError checks if an error is a bind failure
func IsBindError(err error) bool { return isType(err, ErrTypeBind) }

// IsDeviceError checks if an error was reported by the light
func IsDeviceError(err error) bool { return isType(err, ErrTypeDevice) }

// IsParseError checks if an error is a reply parse failure
func IsParseError(err error) bool { return isType(err, ErrTypeParse) }

// IsProtocolError checks if an error is a malformed reply
func IsProtocolError(err error) bool { return isType(err, ErrTypeProtocol) }

// IsNetworkError checks if an error happened at the socket level
func IsNetworkError(err error) bool {
	t, ok := TypeOf(err)
	return ok && (t == ErrTypeBind || t == ErrTypeSend || t == ErrTypeSocket || t == ErrTypeTimeout)
}

// DecodeDeviceError decodes the light's error object from a device error
func DecodeDeviceError(err error) (code int, message string, ok bool) {
	var te *Error
	if !errors.As(err, &te) || te.Type != ErrTypeDevice {
		return 0, "", false
	}
	var body protocol.DeviceErrorBody
	if json.Unmarshal([]byte(te.Message), &body) != nil {
		return 0, "", false
	}
	return body.Code, body.Message, true
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	t, ok := TypeOf(err)
	if !ok {
		return []string{"An unexpected error occurred. Please try again."}
	}

	switch t {
	case ErrTypeTimeout:
		return []string{
			"The light did not respond within one second.",
			"Check that the light is powered on and connected to WiFi",
			"Verify the IP address (lights may change address after a reboot)",
			"Ensure this computer is on the same network segment",
			"Check that no firewall blocks UDP port 38899",
		}
	case ErrTypeBind:
		return []string{
			"Could not open a local UDP socket.",
			"Check the --interface value matches a network interface on this host",
			"Another process may hold the port",
		}
	case ErrTypeSend, ErrTypeSocket:
		return []string{
			"The network rejected the datagram.",
			"Verify the destination IP address is valid and reachable",
			"Broadcast sends need a network that permits broadcast traffic",
		}
	case ErrTypeParse, ErrTypeProtocol:
		return []string{
			"The reply was not a valid WiZ response.",
			"Another device may be answering on UDP port 38899",
			"Try updating the light's firmware",
		}
	case ErrTypeDevice:
		return []string{
			"The light rejected the command.",
			"Some models do not support every method or parameter",
			"Check the parameter ranges for this model",
		}
	case ErrTypeCanceled:
		return []string{"The operation was cancelled before the light replied."}
	default:
		return []string{strings.TrimSpace(err.Error())}
	}
}
