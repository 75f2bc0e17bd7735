package control

import (
	"context"

	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
)

// SetResult is the reply of every set-style command
type SetResult = transport.Result[protocol.SuccessResult]

// ChangeBrightness sets dimming (10-100)
func (c *Controller) ChangeBrightness(ctx context.Context, ip string, dimming int) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewBrightnessMessage(dimming), ip, full)
}

// ChangeStatus turns the light on or off
func (c *Controller) ChangeStatus(ctx context.Context, ip string, on bool) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewStateMessage(on), ip, full)
}

// ChangeSpeed sets the animation speed of the current scene (10-200)
func (c *Controller) ChangeSpeed(ctx context.Context, ip string, speed int) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewSpeedMessage(speed), ip, full)
}

// ChangeTemperature switches to white light at kelvin (1000-10000)
func (c *Controller) ChangeTemperature(ctx context.Context, ip string, kelvin int, dimming *int) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewTemperatureMessage(kelvin, dimming), ip, full)
}

// ChangeColor switches to an RGB(CW) color
func (c *Controller) ChangeColor(ctx context.Context, ip string, color protocol.Color, dimming *int) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewColorMessage(color, dimming), ip, full)
}

// ChangeScene switches to a built-in scene
func (c *Controller) ChangeScene(ctx context.Context, ip string, sceneID int, speed, dimming *int) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewSceneMessage(sceneID, speed, dimming), ip, full)
}

// SetPilot sends any combination of pilot fields. Only the fields that are
// set are validated.
func (c *Controller) SetPilot(ctx context.Context, ip string, params protocol.PilotParams) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewSetPilotMessage(params), ip, partial)
}

// GetPilot reads the light's current state
func (c *Controller) GetPilot(ctx context.Context, ip string) (transport.Result[protocol.PilotState], error) {
	return status[protocol.PilotState](ctx, c, protocol.NewGetPilotMessage(), ip)
}

// GetSystemConfig reads identity, firmware and home assignment
func (c *Controller) GetSystemConfig(ctx context.Context, ip string) (transport.Result[protocol.SystemConfig], error) {
	return status[protocol.SystemConfig](ctx, c, protocol.NewGetSystemConfigMessage(), ip)
}

// GetPower reads the current power draw. Not every model meters power.
func (c *Controller) GetPower(ctx context.Context, ip string) (transport.Result[protocol.PowerReading], error) {
	return status[protocol.PowerReading](ctx, c, protocol.NewGetPowerMessage(), ip)
}

// SetSystemConfig assigns home, room or group ids. At least one must be set.
func (c *Controller) SetSystemConfig(ctx context.Context, ip string, params protocol.SystemConfigParams) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewSetSystemConfigMessage(params), ip, full)
}

// SetUserConfig updates fade times, default dimming and white ranges
func (c *Controller) SetUserConfig(ctx context.Context, ip string, params protocol.UserConfigParams) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewSetUserConfigMessage(params), ip, partial)
}

// SetModelConfig updates hardware parameters. Wrong values can make a light
// unusable until it is reset.
func (c *Controller) SetModelConfig(ctx context.Context, ip string, params protocol.ModelConfigParams) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewSetModelConfigMessage(params), ip, partial)
}

// UpdateFirmware starts an OTA update. An empty fw requests the default image.
func (c *Controller) UpdateFirmware(ctx context.Context, ip string, fw string) (SetResult, error) {
	if fw == "" {
		fw = protocol.DefaultFirmware
	}
	return command[protocol.SuccessResult](ctx, c, protocol.NewUpdateFirmwareMessage(fw), ip, full)
}

// Reset restores factory settings, including WiFi credentials
func (c *Controller) Reset(ctx context.Context, ip string) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewResetMessage(), ip, full)
}

// Reboot restarts the light
func (c *Controller) Reboot(ctx context.Context, ip string) (SetResult, error) {
	return command[protocol.SuccessResult](ctx, c, protocol.NewRebootMessage(), ip, full)
}

// RegisterLight asks one light to push its state to this controller
func (c *Controller) RegisterLight(ctx context.Context, ip string) transport.Result[protocol.RegistrationResult] {
	res := c.listener.Scheduler().RegisterDevice(ctx, ip, c.iface, protocol.ControlPort, false)
	return transport.Decode[protocol.RegistrationResult](res)
}
