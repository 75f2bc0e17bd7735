package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped // attempted, nobody answered
)

// Step is one attempt of a multi-step operation, such as one broadcast of a
// registration burst
type Step struct {
	Number  int
	Name    string
	Status  StepStatus
	Message string
	Replies []string // lights that answered this step, by MAC
}

// Progress tracks the steps of a Runner and the lights that answered them
type Progress struct {
	steps []Step
	bar   progress.Model
}

// NewProgress creates a tracker for total steps named by names
func NewProgress(total int, names []string, width int) *Progress {
	steps := make([]Step, total)
	for i := range steps {
		steps[i] = Step{Number: i + 1}
		if i < len(names) {
			steps[i].Name = names[i]
		}
	}

	barWidth := min(max(width-40, 20), 40)
	return &Progress{
		steps: steps,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
	}
}

// Len returns the number of steps
func (p *Progress) Len() int {
	return len(p.steps)
}

// Step returns step n (1-based)
func (p *Progress) Step(n int) (Step, bool) {
	if n < 1 || n > len(p.steps) {
		return Step{}, false
	}
	return p.steps[n-1], true
}

// Update sets the status of step n. A non-empty name replaces the step name.
func (p *Progress) Update(n int, name string, status StepStatus, message string) (Step, bool) {
	if n < 1 || n > len(p.steps) {
		return Step{}, false
	}
	s := &p.steps[n-1]
	if name != "" {
		s.Name = name
	}
	s.Status = status
	s.Message = message
	return *s, true
}

// AddReply records that the light identified by mac answered step n
func (p *Progress) AddReply(n int, mac string) {
	if n < 1 || n > len(p.steps) || mac == "" {
		return
	}
	p.steps[n-1].Replies = append(p.steps[n-1].Replies, mac)
}

// Answered returns how many steps got at least one reply
func (p *Progress) Answered() int {
	answered := 0
	for _, s := range p.steps {
		if len(s.Replies) > 0 {
			answered++
		}
	}
	return answered
}

// Responders returns every light that answered any step, sorted and without
// duplicates
func (p *Progress) Responders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range p.steps {
		for _, mac := range s.Replies {
			if !seen[mac] {
				seen[mac] = true
				out = append(out, mac)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Details summarises the replies for a result box
func (p *Progress) Details() []Detail {
	details := []Detail{{Key: "Answered", Value: fmt.Sprintf("%d of %d", p.Answered(), len(p.steps))}}
	if lights := p.Responders(); len(lights) > 0 {
		details = append(details, Detail{Key: "Lights", Value: strings.Join(lights, ", ")})
	}
	return details
}

// Summary renders a bar filled by the share of answered steps
func (p *Progress) Summary() string {
	if len(p.steps) == 0 {
		return ""
	}
	share := float64(p.Answered()) / float64(len(p.steps))
	label := fmt.Sprintf("%d/%d answered", p.Answered(), len(p.steps))
	return lipgloss.NewStyle().PaddingLeft(2).Render(p.bar.ViewAs(share) + "  " + ProgressLabelStyle.Render(label))
}

// renderStepLine renders one step as "[n/total] name  marker  (note)"
func (p *Progress) renderStepLine(step Step) string {
	var marker string
	var style lipgloss.Style
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	note := step.Message
	if note == "" && len(step.Replies) > 0 {
		note = "reply from " + strings.Join(step.Replies, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, len(p.steps))
	b.WriteString(style.Render(step.Name))
	b.WriteString(strings.Repeat(" ", max(45-lipgloss.Width(step.Name), 1)))
	b.WriteString(style.Render(marker))
	if note != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + note + ")"))
	}
	return b.String()
}

// StepCallback reports progress on step stepNumber. A non-empty name
// replaces the step name.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)
