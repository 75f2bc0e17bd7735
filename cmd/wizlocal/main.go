// Wizlocal controls WiZ smart lights on the local network.
//
// It talks to lights directly over UDP: one-shot commands go to port 38899
// and state pushes are received on port 38900 after the lights have been
// asked to register with this host. No cloud account is involved.
//
// Usage:
//
//	wizlocal [command] [flags]
//
// Lights can be addressed by IP, MAC or a nickname stored in the config
// file. See 'wizlocal --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/wizlocal/internal/config"
	"github.com/muurk/wizlocal/internal/logging"
	"github.com/muurk/wizlocal/internal/ui"
	"github.com/muurk/wizlocal/internal/version"
)

// errReported is returned by commands that already printed their failure
var errReported = errors.New("command failed")

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	ifaceName    string
	logLevel     string
	outputFormat string

	format   ui.Format
	registry *config.Registry
)

var rootCmd = &cobra.Command{
	Use:   "wizlocal",
	Short: "Local-network controller for WiZ smart lights",
	Long: `Control WiZ smart lights over the local network.

Commands are sent straight to the light over UDP. The listen, monitor and
serve commands register this host with every light on the subnet so that
lights push their state whenever it changes.

Lights seen on the network are remembered in the config file and can be
addressed by IP address, MAC or nickname.`,
	Version: version.Version,
	Example: `  # Turn a light on and dim it
  wizlocal on 192.168.1.40
  wizlocal brightness 192.168.1.40 30

  # Watch every light on the network
  wizlocal monitor

  # Name a light and use the name afterwards
  wizlocal lights name a8bb50a4f94d desk
  wizlocal scene desk Party --speed 150`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&ifaceName, "interface", "i", "", "Network interface to use (default: interface of the default route)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default $WIZLOCAL_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (detailed, json)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the registry, fills unset flags from its preferences and
// initializes logging
func setup(cmd *cobra.Command, _ []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		// A broken config file should not stop one-off commands
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		reg = config.NewRegistry()
	}
	registry = reg

	if prefs := registry.Preferences; prefs != nil {
		if ifaceName == "" {
			ifaceName = prefs.Interface
		}
		if logLevel == "" {
			logLevel = prefs.LogLevel
		}
		if outputFormat == "" {
			outputFormat = prefs.Format
		}
	}

	format, err = ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if logLevel != "" {
		return logging.Initialize(logLevel)
	}
	return logging.InitializeFromEnv()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if format == ui.FormatJSON {
			return ui.NewPrinter(cmd.OutOrStdout(), format).PrintJSON(version.Get())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wizlocal %s\n", version.Full())
		return nil
	},
}
