package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/wizlocal/internal/bridge"
	"github.com/muurk/wizlocal/internal/control"
	"github.com/muurk/wizlocal/internal/listener"
	"github.com/muurk/wizlocal/internal/localnet"
	"github.com/muurk/wizlocal/internal/logging"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/registration"
	"github.com/muurk/wizlocal/internal/transport"
	"github.com/muurk/wizlocal/internal/ui"
)

var (
	listenDuration time.Duration
	serveAddr      string
	registerAll    bool
)

func init() {
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerCmd)

	listenCmd.Flags().DurationVar(&listenDuration, "duration", 0, "Stop after this long (default: until interrupted)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address for the WebSocket endpoint (default from config, 127.0.0.1:8338)")
	registerCmd.Flags().BoolVar(&registerAll, "all", false, "Broadcast to every light on the subnet")
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// recordInbound remembers lights that announce themselves
func recordInbound(msg protocol.Inbound, ip string) {
	switch m := msg.(type) {
	case *protocol.SyncPilot:
		registry.RecordPush(m)
	case *protocol.FirstBeat:
		registry.RecordFirstBeat(m, ip)
	}
}

func saveRegistry() {
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

// runListener starts a controller that hands every inbound message to cb
// and blocks until ctx is done
func runListener(ctx context.Context, cb listener.Callback) error {
	c := control.New(control.Options{
		InterfaceName: ifaceName,
		IncomingMsgCallback: func(msg protocol.Inbound, ip string) {
			recordInbound(msg, ip)
			cb(msg, ip)
		},
	})
	if err := c.StartListening(ctx); err != nil {
		return err
	}
	defer func() {
		c.StopListening()
		saveRegistry()
	}()
	<-ctx.Done()
	return nil
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print state pushes from every light",
	Long: `Register with every light on the subnet and print the messages they push.

Registration is broadcast three times on start and every 15 seconds after.
Each message is printed on one line; with --format json the line is the
same envelope the serve command streams.`,
	Args: cobra.NoArgs,
	Example: `  wizlocal listen
  wizlocal listen --format json --duration 1m > pushes.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()
		if listenDuration > 0 {
			ctx, cancel = context.WithTimeout(ctx, listenDuration)
			defer cancel()
		}

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		show := func(msg protocol.Inbound, ip string) {
			mu.Lock()
			defer mu.Unlock()
			writeInbound(out, msg, ip, time.Now())
		}

		if format != ui.FormatJSON {
			ui.NewPrinter(cmd.ErrOrStderr(), format).Println(
				ui.StepNoteStyle.Render(fmt.Sprintf("Listening on UDP %d (local address %s). Press Ctrl+C to stop.",
					protocol.ListenPort, localnet.ResolveLocalAddress(ifaceName))))
		}
		return runListener(ctx, show)
	},
}

// writeInbound prints one inbound message
func writeInbound(w io.Writer, msg protocol.Inbound, ip string, at time.Time) {
	if format == ui.FormatJSON {
		data, err := json.Marshal(bridge.Event{
			Type:       bridge.EventType(msg),
			IP:         ip,
			ReceivedAt: at.UTC(),
			Message:    msg,
		})
		if err == nil {
			fmt.Fprintln(w, string(data))
		}
		return
	}

	stamp := at.Format("15:04:05")
	switch m := msg.(type) {
	case *protocol.SyncPilot:
		state := ui.LightOffStyle.Render("off")
		if m.Params.IsOn() {
			state = ui.LightOnStyle.Render("on ")
		}
		dim := ""
		if m.Params.Dimming != nil {
			dim = " " + strconv.Itoa(*m.Params.Dimming) + "%"
		}
		fmt.Fprintf(w, "%s  %-15s  %s  %s  %s%s\n", stamp, ip, m.Params.Mac, state, m.Params.Mode(), dim)
	case *protocol.FirstBeat:
		fmt.Fprintf(w, "%s  %-15s  %s  firstBeat fw %s\n", stamp, ip, m.Params.Mac, m.Params.FwVersion)
	case *protocol.CommandResponse:
		fmt.Fprintf(w, "%s  %-15s  reply to %s\n", stamp, ip, m.Method)
	case *protocol.UnknownMessage:
		fmt.Fprintf(w, "%s  %-15s  %s\n", stamp, ip, string(m.Raw))
	}
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live table of every light on the network",
	Long: `Open a live table of lights that push their state to this host.

Keys: r re-registers immediately, c clears the table, ? shows help, q quits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal(os.Stdout) {
			return fmt.Errorf("monitor needs a terminal; use 'wizlocal listen' instead")
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		var c *control.Controller
		refresh := func() error {
			res := c.Listener().Scheduler().RegisterDevice(ctx,
				localnet.BroadcastAddress(ifaceName), ifaceName, protocol.ControlPort, true)
			return res.Err()
		}

		program := tea.NewProgram(ui.NewMonitor(ifaceName, refresh), tea.WithAltScreen(), tea.WithContext(ctx))

		c = control.New(control.Options{
			InterfaceName: ifaceName,
			IncomingMsgCallback: func(msg protocol.Inbound, ip string) {
				recordInbound(msg, ip)
				program.Send(ui.PushMsg{Msg: msg, IP: ip})
			},
		})
		if err := c.StartListening(ctx); err != nil {
			return err
		}
		defer func() {
			c.StopListening()
			saveRegistry()
		}()

		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream light pushes to WebSocket clients",
	Long: `Listen for light pushes and relay each one to every client connected to
ws://<addr>/ws as a JSON envelope:

  {"type":"syncPilot","ip":"192.168.1.40","receivedAt":"...","message":{...}}`,
	Args:    cobra.NoArgs,
	Example: `  wizlocal serve --addr 0.0.0.0:8338`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" && registry.Preferences != nil {
			addr = registry.Preferences.ServeAddr
		}
		if addr == "" {
			addr = "127.0.0.1:8338"
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		hub := bridge.NewHub()
		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.Serve(ctx, ln)
		}()

		logging.Info("Event bridge started", zap.String("addr", ln.Addr().String()))
		ui.NewPrinter(cmd.ErrOrStderr(), format).Println(
			ui.StepNoteStyle.Render("Streaming on ws://" + ln.Addr().String() + bridge.Path))

		if err := runListener(ctx, hub.Publish); err != nil {
			cancel()
			<-errCh
			return err
		}
		return <-errCh
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [light]",
	Short: "Ask lights to push their state to this host",
	Long: `Send a registration message so lights push syncPilot updates to this host.

With a light argument one unicast registration is sent and the reply shown.
With --all three broadcast registrations are sent, the same burst the
listen command starts with.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if registerAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Example: `  wizlocal register desk
  wizlocal register --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if registerAll {
			return registerBroadcast(cmd)
		}
		return exchange[protocol.RegistrationResult]{
			title:  "Registered",
			target: args[0],
			do: func(ctx context.Context, c *control.Controller, ip string) (transport.Result[protocol.RegistrationResult], error) {
				return c.RegisterLight(ctx, ip), nil
			},
			describe: func(r protocol.RegistrationResult) []ui.Detail {
				return []ui.Detail{{Key: "MAC", Value: r.Mac}}
			},
		}.run(cmd)
	},
}

func registerBroadcast(cmd *cobra.Command) error {
	target := localnet.BroadcastAddress(ifaceName)
	session := localnet.NewSession()
	scheduler := registration.NewScheduler(transport.DefaultSender, session)

	names := make([]string, registration.BurstCount)
	for i := range names {
		names[i] = fmt.Sprintf("Broadcast registration %d to %s", i+1, target)
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:      "Register Lights",
		Command:    commandLine(cmd),
		Params:     []ui.Detail{{Key: "Broadcast", Value: target}, {Key: "Session MAC", Value: session.MAC}},
		TotalSteps: registration.BurstCount,
		StepNames:  names,
		Output:     cmd.OutOrStdout(),
	})

	_, err := runner.Run(cmd.Context(), func(onStep ui.StepCallback) ([]ui.Detail, error) {
		for i := 1; i <= registration.BurstCount; i++ {
			onStep(i, "", ui.StepRunning, "")
			res := transport.Decode[protocol.RegistrationResult](
				scheduler.RegisterDevice(cmd.Context(), target, ifaceName, protocol.ControlPort, true))
			if !res.OK() {
				// Lights answer a broadcast individually; a timeout only means
				// none answered the socket that sent it
				onStep(i, "", ui.StepSkipped, res.Err().Error())
				continue
			}
			runner.Replied(i, res.Params().Mac)
			onStep(i, "", ui.StepComplete, "")
		}
		if len(runner.Responders()) == 0 {
			return nil, fmt.Errorf("no light answered %d broadcast registrations", registration.BurstCount)
		}
		return nil, nil
	})
	if err != nil {
		return errReported
	}
	return nil
}
