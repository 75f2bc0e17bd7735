package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateBrightness(t *testing.T) {
	tests := []struct {
		name    string
		dimming int
		wantErr bool
	}{
		{"Valid: minimum", 10, false},
		{"Valid: middle", 50, false},
		{"Valid: maximum", 100, false},
		{"Invalid: below range", 5, true},
		{"Invalid: zero", 0, true},
		{"Invalid: above range", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(NewBrightnessMessage(tt.dimming), ValidateOptions{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(dimming=%d) error = %v, wantErr %v", tt.dimming, err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validate(NewBrightnessMessage(5), ValidateOptions{})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Method != MethodSetPilot {
		t.Errorf("Method = %s, want %s", ve.Method, MethodSetPilot)
	}
	if !ve.HasField("dimming") {
		t.Errorf("expected dimming field error, got %v", ve.Errors)
	}
	want := "invalid setPilot message: dimming: must be between 10 and 100, got 5"
	if ve.Error() != want {
		t.Errorf("Error() = %q, want %q", ve.Error(), want)
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name      string
		color     Color
		dimming   *int
		wantCount int
	}{
		{"Valid: red", Color{R: 255}, nil, 0},
		{"Valid: with whites", Color{R: 10, G: 20, B: 30, C: Int(0), W: Int(255)}, Int(80), 0},
		{"Invalid: green too high", Color{G: 256}, nil, 1},
		{"Invalid: negative blue and warm white", Color{B: -1, W: Int(300)}, nil, 2},
		{"Invalid: dimming", Color{R: 1}, Int(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(NewColorMessage(tt.color, tt.dimming), ValidateOptions{})
			got := 0
			var ve *ValidationError
			if errors.As(err, &ve) {
				got = len(ve.Errors)
			}
			if got != tt.wantCount {
				t.Errorf("got %d errors (%v), want %d", got, err, tt.wantCount)
			}
		})
	}
}

func TestValidateScene(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		field   string
		wantErr bool
	}{
		{"Valid: ocean with speed", NewSceneMessage(1, Int(100), nil), "", false},
		{"Valid: rhythm", NewSceneMessage(RhythmSceneID, nil, nil), "", false},
		{"Invalid: unknown scene", NewSceneMessage(33, nil, nil), "sceneId", true},
		{"Invalid: speed on static scene", NewSceneMessage(11, Int(100), nil), "speed", true},
		{"Invalid: speed out of range", NewSceneMessage(1, Int(500), nil), "speed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.msg, ValidateOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				errors.As(err, &ve)
				if !ve.HasField(tt.field) {
					t.Errorf("expected %s error, got %v", tt.field, ve.Errors)
				}
			}
		})
	}
}

func TestValidateSkipMissingProperties(t *testing.T) {
	msg := NewSetPilotMessage(PilotParams{})

	if err := Validate(msg, ValidateOptions{}); err == nil {
		t.Error("empty setPilot should fail full validation")
	}
	if err := Validate(msg, ValidateOptions{SkipMissingProperties: true}); err != nil {
		t.Errorf("empty setPilot should pass partial validation, got %v", err)
	}

	partial := NewSetPilotMessage(PilotParams{Dimming: Int(5)})
	if err := Validate(partial, ValidateOptions{SkipMissingProperties: true}); err == nil {
		t.Error("present fields must still be range-checked in partial mode")
	}
}

func TestCheckRulesRequired(t *testing.T) {
	rules := []Rule{{Field: "temp", Min: 1000, Max: 10000, Required: true}}

	errs := CheckRules(rules, map[string]*int{"temp": nil}, ValidateOptions{})
	if len(errs) != 1 || errs[0].Message != "is required" {
		t.Errorf("CheckRules() = %v, want one required error", errs)
	}

	errs = CheckRules(rules, map[string]*int{"temp": nil}, ValidateOptions{SkipMissingProperties: true})
	if len(errs) != 0 {
		t.Errorf("CheckRules() with skip = %v, want none", errs)
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		ip        string
		mac       string
		wantField string
	}{
		{"Valid", "192.168.1.10", "a8bb50a1b2c3", ""},
		{"Valid: colon mac", "192.168.1.10", "a8:bb:50:a1:b2:c3", ""},
		{"Invalid: ipv6", "::1", "a8bb50a1b2c3", "phoneIp"},
		{"Invalid: empty ip", "", "a8bb50a1b2c3", "phoneIp"},
		{"Invalid: short mac", "192.168.1.10", "a8bb", "phoneMac"},
		{"Invalid: non-hex mac", "192.168.1.10", "zzbb50a1b2c3", "phoneMac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(NewRegistrationMessage(tt.ip, tt.mac), ValidateOptions{})
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || !ve.HasField(tt.wantField) {
				t.Errorf("expected %s error, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateUserConfig(t *testing.T) {
	tests := []struct {
		name    string
		params  UserConfigParams
		wantErr string
	}{
		{"Valid: fades", UserConfigParams{FadeIn: Int(500), FadeOut: Int(1000)}, ""},
		{"Valid: white range", UserConfigParams{WhiteRange: []int{2200, 6500}}, ""},
		{"Invalid: default dimming", UserConfigParams{DftDim: Int(5)}, "dftDim"},
		{"Invalid: range order", UserConfigParams{WhiteRange: []int{6500, 2200}}, "ascending"},
		{"Invalid: range length", UserConfigParams{ExtRange: []int{2200}}, "must have 2 values"},
		{"Invalid: pwm bounds", UserConfigParams{PwmRange: []int{0, 150}}, "between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(NewSetUserConfigMessage(tt.params), ValidateOptions{SkipMissingProperties: true})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateModelConfig(t *testing.T) {
	valid := ModelConfigParams{
		Ps:           Int(1),
		PwmFreq:      Int(1000),
		CctRange:     []int{2200, 2700, 6500, 6500 + 1},
		RenderFactor: []int{255, 0, 255, 255, 255, 0, 0, 0, 0, 0},
	}
	if err := Validate(NewSetModelConfigMessage(valid), ValidateOptions{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := ModelConfigParams{Nowc: Int(4), RenderFactor: []int{1, 2}}
	err := Validate(NewSetModelConfigMessage(invalid), ValidateOptions{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !ve.HasField("nowc") || !ve.HasField("renderFactor") {
		t.Errorf("errors = %v, want nowc and renderFactor", ve.Errors)
	}
}

func TestValidateSystemConfigRequiresAField(t *testing.T) {
	if err := Validate(NewSetSystemConfigMessage(SystemConfigParams{}), ValidateOptions{}); err == nil {
		t.Error("empty setSystemConfig should fail")
	}
	if err := Validate(NewSetSystemConfigMessage(SystemConfigParams{RoomID: Int(7)}), ValidateOptions{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateFirmware(t *testing.T) {
	if err := Validate(NewUpdateFirmwareMessage(""), ValidateOptions{}); err == nil {
		t.Error("empty fw should fail")
	}
	if err := Validate(NewUpdateFirmwareMessage(DefaultFirmware), ValidateOptions{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateEnvelope(t *testing.T) {
	if err := Validate(nil, ValidateOptions{}); err == nil {
		t.Error("nil message should fail")
	}

	msg := &Message{Method: "", Version: 2, ID: 0}
	err := Validate(msg, ValidateOptions{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"method", "version", "id"} {
		if !ve.HasField(f) {
			t.Errorf("missing %s error in %v", f, ve.Errors)
		}
	}
}
