package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/wizlocal/internal/control"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
	"github.com/muurk/wizlocal/internal/ui"
)

// Light command flags
var (
	dimmingFlag int
	speedFlag   int
	coldFlag    int
	warmFlag    int
)

func init() {
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(brightnessCmd)
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(tempCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(speedCmd)
	rootCmd.AddCommand(powerCmd)

	colorCmd.Flags().IntVar(&dimmingFlag, "dimming", 0, "Brightness in percent (10-100)")
	colorCmd.Flags().IntVar(&coldFlag, "cold", 0, "Cold white channel (0-255)")
	colorCmd.Flags().IntVar(&warmFlag, "warm", 0, "Warm white channel (0-255)")
	tempCmd.Flags().IntVar(&dimmingFlag, "dimming", 0, "Brightness in percent (10-100)")
	sceneCmd.Flags().IntVar(&dimmingFlag, "dimming", 0, "Brightness in percent (10-100)")
	sceneCmd.Flags().IntVar(&speedFlag, "speed", 0, "Scene speed (10-200)")
}

// optionalInt returns a pointer to v only if the flag was given
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if cmd.Flags().Changed(name) {
		return protocol.Int(v)
	}
	return nil
}

func parseIntArg(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, s)
	}
	return v, nil
}

var onCmd = &cobra.Command{
	Use:     "on <light>",
	Short:   "Turn a light on",
	Args:    cobra.ExactArgs(1),
	Example: `  wizlocal on 192.168.1.40`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], true)
	},
}

var offCmd = &cobra.Command{
	Use:     "off <light>",
	Short:   "Turn a light off",
	Args:    cobra.ExactArgs(1),
	Example: `  wizlocal off desk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], false)
	},
}

func changeStatus(cmd *cobra.Command, target string, on bool) error {
	title := "Light off"
	if on {
		title = "Light on"
	}
	return exchange[protocol.SuccessResult]{
		title:  title,
		target: target,
		do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
			return c.ChangeStatus(ctx, ip, on)
		},
		describe: describeSuccess,
	}.run(cmd)
}

var brightnessCmd = &cobra.Command{
	Use:   "brightness <light> <percent>",
	Short: "Set brightness (10-100)",
	Args:  cobra.ExactArgs(2),
	Example: `  # Half brightness
  wizlocal brightness 192.168.1.40 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dimming, err := parseIntArg("brightness", args[1])
		if err != nil {
			return err
		}
		return exchange[protocol.SuccessResult]{
			title:  "Brightness set",
			target: args[0],
			params: []ui.Detail{{Key: "Dimming", Value: args[1] + "%"}},
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.ChangeBrightness(ctx, ip, dimming)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var colorCmd = &cobra.Command{
	Use:   "color <light> <#rrggbb|r,g,b>",
	Short: "Set an RGB color",
	Args:  cobra.ExactArgs(2),
	Example: `  wizlocal color desk '#ff8800'
  wizlocal color 192.168.1.40 255,0,64 --dimming 40`,
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := parseColor(args[1])
		if err != nil {
			return err
		}
		color.C = optionalInt(cmd, "cold", coldFlag)
		color.W = optionalInt(cmd, "warm", warmFlag)
		dimming := optionalInt(cmd, "dimming", dimmingFlag)

		return exchange[protocol.SuccessResult]{
			title:  "Color set",
			target: args[0],
			params: []ui.Detail{{Key: "Color", Value: fmt.Sprintf("%d,%d,%d", color.R, color.G, color.B)}},
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.ChangeColor(ctx, ip, color, dimming)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

// parseColor accepts #rrggbb, rrggbb or r,g,b. Range checks are left to
// message validation.
func parseColor(s string) (protocol.Color, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return protocol.Color{}, fmt.Errorf("invalid color %q: expected r,g,b", s)
		}
		var rgb [3]int
		for i, part := range parts {
			v, err := parseIntArg("color component", part)
			if err != nil {
				return protocol.Color{}, err
			}
			rgb[i] = v
		}
		return protocol.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return protocol.Color{}, fmt.Errorf("invalid color %q: expected #rrggbb or r,g,b", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return protocol.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return protocol.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

var tempCmd = &cobra.Command{
	Use:     "temp <light> <kelvin>",
	Short:   "Set white color temperature (1000-10000 K)",
	Args:    cobra.ExactArgs(2),
	Example: `  wizlocal temp desk 2700 --dimming 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kelvin, err := parseIntArg("temperature", args[1])
		if err != nil {
			return err
		}
		dimming := optionalInt(cmd, "dimming", dimmingFlag)
		return exchange[protocol.SuccessResult]{
			title:  "Temperature set",
			target: args[0],
			params: []ui.Detail{{Key: "Temperature", Value: args[1] + " K"}},
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.ChangeTemperature(ctx, ip, kelvin, dimming)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var sceneCmd = &cobra.Command{
	Use:   "scene <light> <id|name>",
	Short: "Start a built-in scene",
	Long: `Start one of the light's built-in dynamic scenes.

The scene can be given by number or by name (case-insensitive).
Use 'wizlocal scenes' to list them.`,
	Args: cobra.ExactArgs(2),
	Example: `  wizlocal scene desk Party
  wizlocal scene 192.168.1.40 4 --speed 150 --dimming 80`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := lookupScene(args[1])
		if err != nil {
			return err
		}
		speed := optionalInt(cmd, "speed", speedFlag)
		dimming := optionalInt(cmd, "dimming", dimmingFlag)
		return exchange[protocol.SuccessResult]{
			title:  "Scene set",
			target: args[0],
			params: []ui.Detail{{Key: "Scene", Value: fmt.Sprintf("%s (%d)", scene.Name, scene.ID)}},
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.ChangeScene(ctx, ip, scene.ID, speed, dimming)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

func lookupScene(s string) (protocol.Scene, error) {
	if id, err := strconv.Atoi(s); err == nil {
		if scene, ok := protocol.SceneByID(id); ok {
			return scene, nil
		}
		// Unknown ids are reported by message validation
		return protocol.Scene{ID: id, Name: "unknown"}, nil
	}
	if scene, ok := protocol.SceneByName(s); ok {
		return scene, nil
	}
	return protocol.Scene{}, fmt.Errorf("unknown scene %q (see 'wizlocal scenes')", s)
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List built-in scenes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout(), format)
		scenes := protocol.Scenes()
		if p.JSON() {
			return p.PrintJSON(scenes)
		}
		for _, s := range scenes {
			speed := ""
			if s.SupportsSpeed {
				speed = ui.StepNoteStyle.Render("  (speed)")
			}
			p.Println(fmt.Sprintf("  %4d  %s%s", s.ID, s.Name, speed))
		}
		return nil
	},
}

var speedCmd = &cobra.Command{
	Use:     "speed <light> <10-200>",
	Short:   "Set the speed of the running scene",
	Args:    cobra.ExactArgs(2),
	Example: `  wizlocal speed desk 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := parseIntArg("speed", args[1])
		if err != nil {
			return err
		}
		return exchange[protocol.SuccessResult]{
			title:  "Speed set",
			target: args[0],
			params: []ui.Detail{{Key: "Speed", Value: args[1]}},
			do: func(ctx context.Context, c *control.Controller, ip string) (control.SetResult, error) {
				return c.ChangeSpeed(ctx, ip, speed)
			},
			describe: describeSuccess,
		}.run(cmd)
	},
}

var powerCmd = &cobra.Command{
	Use:   "power <light>",
	Short: "Read current power draw",
	Long: `Read the light's current power draw.

Only lights with a power meter answer this; others reply with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exchange[protocol.PowerReading]{
			title:  "Power reading",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (transport.Result[protocol.PowerReading], error) {
				return c.GetPower(ctx, ip)
			},
			describe: describePower,
		}.run(cmd)
	},
}
