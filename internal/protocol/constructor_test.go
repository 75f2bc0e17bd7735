package protocol

import (
	"encoding/json"
	"testing"
)

func decodeWire(t *testing.T, msg *Message) map[string]any {
	t.Helper()
	data, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON %s: %v", data, err)
	}
	return out
}

func TestNewRegistrationMessage(t *testing.T) {
	wire := decodeWire(t, NewRegistrationMessage("192.168.1.10", "a8bb50a1b2c3"))

	if wire["method"] != MethodRegistration {
		t.Errorf("method = %v", wire["method"])
	}
	if wire["version"] != float64(1) {
		t.Errorf("version = %v, want 1", wire["version"])
	}
	params, ok := wire["params"].(map[string]any)
	if !ok {
		t.Fatalf("params missing: %v", wire)
	}
	if params["phoneIp"] != "192.168.1.10" || params["phoneMac"] != "a8bb50a1b2c3" || params["register"] != true {
		t.Errorf("params = %v", params)
	}
}

func TestNewSyncPilotAck(t *testing.T) {
	wire := decodeWire(t, NewSyncPilotAck(77, "pro", "a8bb50a1b2c3"))

	if wire["method"] != MethodSyncPilot {
		t.Errorf("method = %v", wire["method"])
	}
	if wire["id"] != float64(77) || wire["env"] != "pro" {
		t.Errorf("id/env not echoed: %v", wire)
	}
	result, ok := wire["result"].(map[string]any)
	if !ok || result["mac"] != "a8bb50a1b2c3" {
		t.Errorf("result = %v", wire["result"])
	}
	if _, ok := wire["params"]; ok {
		t.Error("ack must not carry params")
	}
}

func TestCommandMessagesCarryParams(t *testing.T) {
	tests := []struct {
		msg    *Message
		method string
	}{
		{NewGetPilotMessage(), MethodGetPilot},
		{NewGetSystemConfigMessage(), MethodGetSystemConfig},
		{NewGetPowerMessage(), MethodGetPower},
		{NewResetMessage(), MethodReset},
		{NewRebootMessage(), MethodReboot},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			wire := decodeWire(t, tt.msg)
			if wire["method"] != tt.method {
				t.Errorf("method = %v, want %s", wire["method"], tt.method)
			}
			if _, ok := wire["params"].(map[string]any); !ok {
				t.Errorf("params = %v, want empty object", wire["params"])
			}
			id, _ := wire["id"].(float64)
			if id < 1 || id > maxMessageID {
				t.Errorf("id = %v, want 1..%d", id, maxMessageID)
			}
		})
	}
}

func TestPilotBuildersOmitUnsetFields(t *testing.T) {
	wire := decodeWire(t, NewTemperatureMessage(2700, nil))
	params := wire["params"].(map[string]any)

	if params["temp"] != float64(2700) {
		t.Errorf("temp = %v", params["temp"])
	}
	if _, ok := params["dimming"]; ok {
		t.Error("dimming should be omitted when nil")
	}
	if len(params) != 1 {
		t.Errorf("params = %v, want only temp", params)
	}
}

func TestNewStateMessageOff(t *testing.T) {
	wire := decodeWire(t, NewStateMessage(false))
	params := wire["params"].(map[string]any)
	if params["state"] != false {
		t.Errorf("state = %v, want false", params["state"])
	}
}

func TestNewSetPilotMessageClearsRequired(t *testing.T) {
	msg := NewSetPilotMessage(PilotParams{Speed: Int(50), required: []string{"temp"}})
	if err := Validate(msg, ValidateOptions{}); err != nil {
		t.Errorf("partial setPilot should not inherit required fields: %v", err)
	}
}

func TestNewMessageID(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewMessageID()
		if id < 1 || id > maxMessageID {
			t.Fatalf("NewMessageID() = %d, out of range", id)
		}
	}
}
