// Package ui provides terminal UI components for the wizlocal CLI.
//
// Most commands follow a "run once and exit" pattern: they print a header,
// perform one exchange with a light and render a result box. The Monitor is
// the exception; it is a Bubble Tea program that stays up and redraws a
// table of lights as pushes arrive.
//
// # Components
//
//   - Header: command banner showing operation name and parameters
//   - Progress: step list plus the lights that answered each step
//   - Result: success, warning and failure boxes with troubleshooting tips
//   - ReplyOutput: raw reply datagrams for verbose mode
//   - Runner: drives header, progress and result for multi-step commands
//   - Confirmation: typed-phrase prompt before dangerous operations
//   - Monitor: live table fed by PushMsg values
//
// # Usage Pattern
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Register Lights",
//	    Command:    "wizlocal register --all",
//	    TotalSteps: 3,
//	})
//	_, err := runner.Run(ctx, func(onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, "Broadcast registration", ui.StepRunning, "")
//	    // send, then on a reply:
//	    runner.Replied(1, mac)
//	    onStep(1, "", ui.StepComplete, "")
//	    return nil, nil
//	})
//
// Output is plain when stdout is not a terminal; see IsTerminal.
package ui
