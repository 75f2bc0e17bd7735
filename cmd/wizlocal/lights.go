package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/wizlocal/internal/config"
	"github.com/muurk/wizlocal/internal/ui"
)

func init() {
	lightsCmd.AddCommand(lightsNameCmd)
	lightsCmd.AddCommand(lightsForgetCmd)
	rootCmd.AddCommand(lightsCmd)
}

// lightEntry is the JSON form of a remembered light
type lightEntry struct {
	MAC string `json:"mac"`
	*config.Light
}

var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "List lights remembered in the config file",
	Long: `List every light that has pushed its state or answered getSystemConfig.

Lights are added by listen, monitor, serve and 'config get'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout(), format)
		macs := registry.MACs()

		if p.JSON() {
			entries := make([]lightEntry, 0, len(macs))
			for _, mac := range macs {
				entries = append(entries, lightEntry{MAC: mac, Light: registry.GetLight(mac)})
			}
			return p.PrintJSON(entries)
		}

		if len(macs) == 0 {
			p.PrintWarning("No lights known yet",
				ui.Detail{Key: "Hint", Value: "run 'wizlocal listen' for a minute to discover lights"})
			return nil
		}

		for _, mac := range macs {
			l := registry.GetLight(mac)
			name := l.Nickname
			if name == "" {
				name = "-"
			}
			state := ui.StepNoteStyle.Render("?")
			if l.LastState != nil {
				if l.LastState.On {
					state = ui.LightOnStyle.Render("on ")
				} else {
					state = ui.LightOffStyle.Render("off")
				}
			}
			p.Println(fmt.Sprintf("  %-12s  %-15s  %-16s  %s  %s", mac, l.LastIP, name, state,
				ui.StepNoteStyle.Render(seenAgo(l.LastSeen))))
		}
		return nil
	},
}

func seenAgo(t time.Time) string {
	if t.IsZero() {
		return "never seen"
	}
	return "seen " + time.Since(t).Round(time.Second).String() + " ago"
}

var lightsNameCmd = &cobra.Command{
	Use:     "name <mac> <nickname>",
	Short:   "Give a light a nickname usable in place of its IP",
	Args:    cobra.ExactArgs(2),
	Example: `  wizlocal lights name a8bb50a4f94d desk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry.SetLightNickname(args[0], args[1])
		if err := registry.Save(); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout(), format).PrintSuccess("Nickname saved",
			ui.Detail{Key: "MAC", Value: config.NormalizeMAC(args[0])},
			ui.Detail{Key: "Nickname", Value: args[1]})
		return nil
	},
}

var lightsForgetCmd = &cobra.Command{
	Use:   "forget <mac>",
	Short: "Remove a light from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !registry.RemoveLight(args[0]) {
			return fmt.Errorf("no light with MAC %s", args[0])
		}
		return registry.Save()
	},
}
