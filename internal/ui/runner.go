package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RunnerConfig holds configuration for a multi-step command
type RunnerConfig struct {
	Title      string   // Command title (e.g., "Register Lights")
	Command    string   // Full command (e.g., "wizlocal register --all")
	Params     []Detail // Parameters to display in header
	TotalSteps int      // Total number of steps (for progress)
	StepNames  []string // Names for each step
	Verbose    bool     // Whether to show raw replies
	Output     io.Writer
}

// Runner orchestrates the UI for a multi-step command.
// It manages the header, progress and result flow and provides
// callbacks for reporting progress.
type Runner struct {
	config    RunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	replies   [][]byte
	startTime time.Time
	width     int
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	header := NewHeader(config.Title, config.Command, config.Params...)
	header.SetWidth(width)

	var progress *Progress
	if config.TotalSteps > 0 {
		progress = NewProgress(config.TotalSteps, config.StepNames, width)
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Operation is the work a Runner displays. It reports progress through
// onStep and returns details for the success box.
type Operation func(onStep StepCallback) ([]Detail, error)

// Run executes the operation with UI updates.
func (r *Runner) Run(ctx context.Context, operation Operation) ([]Detail, error) {
	r.startTime = time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(r.createStepCallback())
	if err == nil {
		err = ctx.Err()
	}
	duration := time.Since(r.startTime)

	if err != nil {
		r.printFailure(err)
	} else {
		r.printSuccess(details, duration)
	}
	return details, err
}

// AddReply stores a raw reply for verbose display
func (r *Runner) AddReply(raw []byte) {
	r.replies = append(r.replies, append([]byte(nil), raw...))
}

// Replied records that the light identified by mac answered step n. Call it
// before reporting the step complete so the step line names the light.
func (r *Runner) Replied(n int, mac string) {
	if r.progress != nil {
		r.progress.AddReply(n, mac)
	}
}

// Responders returns the lights that answered any step so far
func (r *Runner) Responders() []string {
	if r.progress == nil {
		return nil
	}
	return r.progress.Responders()
}

// createStepCallback creates the step callback function
func (r *Runner) createStepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil {
			return
		}
		step, ok := r.progress.Update(stepNumber, name, status, message)
		if !ok {
			return
		}
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
		case StepRunning:
			// Overwritten when the step completes
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}

func (r *Runner) printSummary() {
	if r.progress == nil {
		return
	}
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, r.progress.Summary())
}

func (r *Runner) printSuccess(details []Detail, duration time.Duration) {
	r.printSummary()
	_, _ = fmt.Fprintln(r.output)

	if r.progress != nil {
		details = append(details, r.progress.Details()...)
	}
	details = append(details, Detail{Key: "Duration", Value: duration.Round(time.Millisecond).String()})
	result := NewSuccessResult(r.config.Title+" complete", details...)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	r.printReplies()
}

func (r *Runner) printFailure(err error) {
	r.printSummary()
	_, _ = fmt.Fprintln(r.output)

	result := NewErrorResult(r.config.Title+" failed", err)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	r.printReplies()
}

func (r *Runner) printReplies() {
	if !r.config.Verbose || len(r.replies) == 0 {
		return
	}
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, NewReplyOutput(r.replies...).SetWidth(r.width).Render())
}

// PrintPleaseWait prints a styled "please wait" message for long-running operations.
// The duration hint helps set user expectations, e.g., "about 3 seconds".
func PrintPleaseWait(w io.Writer, message string, durationHint string) {
	style := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		PaddingLeft(2)

	hintStyle := lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	line := style.Render("⏳ " + message)
	if durationHint != "" {
		line += " " + hintStyle.Render("("+durationHint+")")
	}
	line += style.Render("...")

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, line)
	_, _ = fmt.Fprintln(w)
}
