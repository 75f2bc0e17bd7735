package protocol

// NewRegistrationMessage builds the registration request that subscribes the
// controller at localIP to a light's state pushes
func NewRegistrationMessage(localIP, mac string) *Message {
	return newMessage(MethodRegistration, RegistrationParams{
		PhoneIP:  localIP,
		Register: true,
		PhoneMac: mac,
	})
}

// NewSyncPilotAck builds the acknowledgement for a syncPilot push. The id and
// env of the push are echoed back.
func NewSyncPilotAck(id int, env string, mac string) *Message {
	return &Message{
		Method:  MethodSyncPilot,
		Version: ProtocolVersion,
		ID:      id,
		Env:     env,
		Result:  AckResult{Mac: mac},
	}
}

// NewGetPilotMessage requests the current light state
func NewGetPilotMessage() *Message {
	return newMessage(MethodGetPilot, EmptyParams{})
}

// NewGetSystemConfigMessage requests the light's system configuration
func NewGetSystemConfigMessage() *Message {
	return newMessage(MethodGetSystemConfig, EmptyParams{})
}

// NewGetPowerMessage requests the light's current power draw
func NewGetPowerMessage() *Message {
	return newMessage(MethodGetPower, EmptyParams{})
}

// NewSetPilotMessage builds a partial setPilot update. Validate it with
// SkipMissingProperties.
func NewSetPilotMessage(params PilotParams) *Message {
	params.required = nil
	return newMessage(MethodSetPilot, params)
}

// NewBrightnessMessage sets the dimming level (10-100)
func NewBrightnessMessage(dimming int) *Message {
	return newMessage(MethodSetPilot, PilotParams{
		Dimming:  Int(dimming),
		required: []string{"dimming"},
	})
}

// NewStateMessage turns the light on or off
func NewStateMessage(on bool) *Message {
	return newMessage(MethodSetPilot, PilotParams{
		State:    Bool(on),
		required: []string{"state"},
	})
}

// NewSpeedMessage sets the dynamic scene speed (10-200)
func NewSpeedMessage(speed int) *Message {
	return newMessage(MethodSetPilot, PilotParams{
		Speed:    Int(speed),
		required: []string{"speed"},
	})
}

// NewTemperatureMessage switches the light to white at a color temperature in
// kelvin. dimming is optional.
func NewTemperatureMessage(kelvin int, dimming *int) *Message {
	return newMessage(MethodSetPilot, PilotParams{
		Temp:     Int(kelvin),
		Dimming:  dimming,
		required: []string{"temp"},
	})
}

// Color is an RGB color with optional cold and warm white channels
type Color struct {
	R, G, B int
	C, W    *int
}

// NewColorMessage switches the light to an RGB(CW) color. dimming is optional.
func NewColorMessage(color Color, dimming *int) *Message {
	return newMessage(MethodSetPilot, PilotParams{
		R:        Int(color.R),
		G:        Int(color.G),
		B:        Int(color.B),
		C:        color.C,
		W:        color.W,
		Dimming:  dimming,
		required: []string{"r", "g", "b"},
	})
}

// NewSceneMessage switches the light to a built-in scene. speed and dimming
// are optional.
func NewSceneMessage(sceneID int, speed *int, dimming *int) *Message {
	return newMessage(MethodSetPilot, PilotParams{
		SceneID:  Int(sceneID),
		Speed:    speed,
		Dimming:  dimming,
		required: []string{"sceneId"},
	})
}

// NewSetSystemConfigMessage updates home, room and group assignment
func NewSetSystemConfigMessage(params SystemConfigParams) *Message {
	return newMessage(MethodSetSystemConfig, params)
}

// NewSetUserConfigMessage updates fade times, default dimming and white ranges
func NewSetUserConfigMessage(params UserConfigParams) *Message {
	return newMessage(MethodSetUserConfig, params)
}

// NewSetModelConfigMessage updates hardware model parameters
func NewSetModelConfigMessage(params ModelConfigParams) *Message {
	return newMessage(MethodSetModelConfig, params)
}

// DefaultFirmware asks the light to fetch its default OTA image
const DefaultFirmware = "default"

// NewUpdateFirmwareMessage starts an OTA update from fw
func NewUpdateFirmwareMessage(fw string) *Message {
	return newMessage(MethodUpdateOta, FirmwareParams{Fw: fw})
}

// NewResetMessage factory-resets the light
func NewResetMessage() *Message {
	return newMessage(MethodReset, EmptyParams{})
}

// NewRebootMessage reboots the light
func NewRebootMessage() *Message {
	return newMessage(MethodReboot, EmptyParams{})
}
