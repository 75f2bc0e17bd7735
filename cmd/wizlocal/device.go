package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/wizlocal/internal/control"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
	"github.com/muurk/wizlocal/internal/ui"
)

// Pilot and configuration flags
var (
	pilotState   bool
	pilotTemp    int
	pilotScene   int
	pilotR       int
	pilotG       int
	pilotB       int
	homeID       int
	roomID       int
	groupID      int
	fadeIn       int
	fadeOut      int
	fadeNight    bool
	defaultDim   int
	powerRestore bool
	ps           int
	pwmFreq      int
	wcr          int
	nowc         int
	firmwareName string
	assumeYes    bool
)

func init() {
	pilotCmd.AddCommand(pilotGetCmd)
	pilotCmd.AddCommand(pilotSetCmd)
	rootCmd.AddCommand(pilotCmd)

	f := pilotSetCmd.Flags()
	f.BoolVar(&pilotState, "state", true, "On or off")
	f.IntVar(&dimmingFlag, "dimming", 0, "Brightness in percent (10-100)")
	f.IntVar(&pilotTemp, "temp", 0, "White temperature in kelvin (1000-10000)")
	f.IntVar(&pilotScene, "scene", 0, "Scene id")
	f.IntVar(&speedFlag, "speed", 0, "Scene speed (10-200)")
	f.IntVar(&pilotR, "r", 0, "Red (0-255)")
	f.IntVar(&pilotG, "g", 0, "Green (0-255)")
	f.IntVar(&pilotB, "b", 0, "Blue (0-255)")
	f.IntVar(&coldFlag, "cold", 0, "Cold white (0-255)")
	f.IntVar(&warmFlag, "warm", 0, "Warm white (0-255)")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(setSystemCmd)
	configCmd.AddCommand(setUserCmd)
	configCmd.AddCommand(setModelCmd)
	rootCmd.AddCommand(configCmd)

	setSystemCmd.Flags().IntVar(&homeID, "home", 0, "Home id")
	setSystemCmd.Flags().IntVar(&roomID, "room", 0, "Room id")
	setSystemCmd.Flags().IntVar(&groupID, "group", 0, "Group id")

	setUserCmd.Flags().IntVar(&fadeIn, "fade-in", 0, "Fade-in time in ms (0-60000)")
	setUserCmd.Flags().IntVar(&fadeOut, "fade-out", 0, "Fade-out time in ms (0-60000)")
	setUserCmd.Flags().BoolVar(&fadeNight, "fade-night", false, "Slow fades in night mode")
	setUserCmd.Flags().IntVar(&defaultDim, "default-dimming", 0, "Brightness after power-on (10-100)")
	setUserCmd.Flags().BoolVar(&powerRestore, "power-restore", false, "Restore last state after power loss")

	setModelCmd.Flags().IntVar(&ps, "ps", 0, "Power supply type")
	setModelCmd.Flags().IntVar(&pwmFreq, "pwm-freq", 0, "PWM frequency in Hz")
	setModelCmd.Flags().IntVar(&wcr, "wcr", 0, "White channel ratio")
	setModelCmd.Flags().IntVar(&nowc, "nowc", 0, "Number of white channels")
	setModelCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	firmwareCmd.AddCommand(firmwareUpdateCmd)
	rootCmd.AddCommand(firmwareCmd)
	firmwareUpdateCmd.Flags().StringVar(&firmwareName, "fw", protocol.DefaultFirmware, "Firmware image name")
}

var pilotCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Read or change the light's pilot state",
}

var pilotGetCmd = &cobra.Command{
	Use:   "get <light>",
	Short: "Read the current pilot state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exchange[protocol.PilotState]{
			title:  "Pilot state",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (transport.Result[protocol.PilotState], error) {
				return c.GetPilot(ctx, ip)
			},
			describe: describePilot,
		}.run(cmd)
	},
}

var pilotSetCmd = &cobra.Command{
	Use:   "set <light>",
	Short: "Send a raw setPilot with any combination of fields",
	Long: `Send setPilot with only the fields given on the command line.

Each given field is range-checked before anything is sent.`,
	Args: cobra.ExactArgs(1),
	Example: `  wizlocal pilot set desk --temp 3000 --dimming 70
  wizlocal pilot set desk --state=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := protocol.PilotParams{
			Dimming: optionalInt(cmd, "dimming", dimmingFlag),
			Temp:    optionalInt(cmd, "temp", pilotTemp),
			SceneID: optionalInt(cmd, "scene", pilotScene),
			Speed:   optionalInt(cmd, "speed", speedFlag),
			R:       optionalInt(cmd, "r", pilotR),
			G:       optionalInt(cmd, "g", pilotG),
			B:       optionalInt(cmd, "b", pilotB),
			C:       optionalInt(cmd, "cold", coldFlag),
			W:       optionalInt(cmd, "warm", warmFlag),
		}
		if cmd.Flags().Changed("state") {
			params.State = protocol.Bool(pilotState)
		}
		return exchange[protocol.SuccessResult]{
			title:  "Pilot set",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.SetPilot(ctx, ip, params)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or change light configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <light>",
	Short: "Read system configuration (MAC, home, room, firmware)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exchange[protocol.SystemConfig]{
			title:  "System configuration",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (transport.Result[protocol.SystemConfig], error) {
				res, err := c.GetSystemConfig(ctx, ip)
				if err == nil && res.OK() {
					registry.RecordSystemConfig(res.Params(), ip)
					saveRegistry()
				}
				return res, err
			},
			describe: describeSystemConfig,
		}.run(cmd)
	},
}

var setSystemCmd = &cobra.Command{
	Use:     "set-system <light>",
	Short:   "Move a light to another home, room or group",
	Args:    cobra.ExactArgs(1),
	Example: `  wizlocal config set-system desk --home 1234 --room 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := protocol.SystemConfigParams{
			HomeID:  optionalInt(cmd, "home", homeID),
			RoomID:  optionalInt(cmd, "room", roomID),
			GroupID: optionalInt(cmd, "group", groupID),
		}
		return exchange[protocol.SuccessResult]{
			title:  "System configuration set",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.SetSystemConfig(ctx, ip, params)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var setUserCmd = &cobra.Command{
	Use:     "set-user <light>",
	Short:   "Change fade times and power-on behaviour",
	Args:    cobra.ExactArgs(1),
	Example: `  wizlocal config set-user desk --fade-in 500 --fade-out 2000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := protocol.UserConfigParams{
			FadeIn:  optionalInt(cmd, "fade-in", fadeIn),
			FadeOut: optionalInt(cmd, "fade-out", fadeOut),
			DftDim:  optionalInt(cmd, "default-dimming", defaultDim),
		}
		if cmd.Flags().Changed("fade-night") {
			params.FadeNight = protocol.Bool(fadeNight)
		}
		if cmd.Flags().Changed("power-restore") {
			params.Po = protocol.Bool(powerRestore)
		}
		return exchange[protocol.SuccessResult]{
			title:  "User configuration set",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.SetUserConfig(ctx, ip, params)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model <light>",
	Short: "Change low-level driver parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok, err := confirm(cmd, ui.ModelConfigConfirmation(args[0])); !ok {
			return err
		}
		params := protocol.ModelConfigParams{
			Ps:      optionalInt(cmd, "ps", ps),
			PwmFreq: optionalInt(cmd, "pwm-freq", pwmFreq),
			Wcr:     optionalInt(cmd, "wcr", wcr),
			Nowc:    optionalInt(cmd, "nowc", nowc),
		}
		return exchange[protocol.SuccessResult]{
			title:  "Model configuration set",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.SetModelConfig(ctx, ip, params)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot <light>",
	Short: "Reboot a light",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exchange[protocol.SuccessResult]{
			title:  "Reboot requested",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.Reboot(ctx, ip)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <light>",
	Short: "Factory reset a light",
	Long: `Factory reset a light.

The light forgets its WiFi credentials and home assignment. You will be
asked to type a confirmation phrase unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok, err := confirm(cmd, ui.ResetConfirmation(args[0])); !ok {
			return err
		}
		return exchange[protocol.SuccessResult]{
			title:  "Factory reset requested",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.Reset(ctx, ip)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var firmwareCmd = &cobra.Command{
	Use:   "firmware",
	Short: "Firmware operations",
}

var firmwareUpdateCmd = &cobra.Command{
	Use:   "update <light>",
	Short: "Ask a light to fetch and install firmware",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exchange[protocol.SuccessResult]{
			title:  "Firmware update requested",
			target: args[0],
			params: []ui.Detail{{Key: "Firmware", Value: firmwareName}},
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.UpdateFirmware(ctx, ip, firmwareName)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

// confirm asks for the typed confirmation phrase. Without a terminal to
// prompt on, --yes is required.
func confirm(cmd *cobra.Command, c ui.Confirmation) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if format == ui.FormatJSON || !ui.IsTerminal(os.Stdin) {
		return false, fmt.Errorf("%s needs confirmation; pass --yes to proceed", cmd.CommandPath())
	}
	return c.Confirm(cmd.InOrStdin(), cmd.OutOrStdout()), nil
}
