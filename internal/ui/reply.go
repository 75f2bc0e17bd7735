package ui

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ReplyOutput is a box of raw JSON datagrams, shown in verbose mode
type ReplyOutput struct {
	Title    string
	Lines    []string
	Width    int
	MaxLines int // 0 = unlimited
}

// NewReplyOutput creates a reply box. Each datagram is pretty-printed when it
// is valid JSON and shown verbatim otherwise.
func NewReplyOutput(replies ...[]byte) *ReplyOutput {
	var lines []string
	for _, raw := range replies {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			lines = append(lines, string(raw))
			continue
		}
		lines = append(lines, strings.Split(buf.String(), "\n")...)
	}
	return &ReplyOutput{
		Title: "Raw Replies",
		Lines: lines,
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *ReplyOutput) SetWidth(width int) *ReplyOutput {
	r.Width = width
	return r
}

// SetMaxLines limits the number of lines displayed
func (r *ReplyOutput) SetMaxLines(max int) *ReplyOutput {
	r.MaxLines = max
	return r
}

// Render returns the styled reply box as a string
func (r *ReplyOutput) Render() string {
	width := clampWidth(r.Width)

	lines := r.Lines
	if r.MaxLines > 0 && len(lines) > r.MaxLines {
		lines = append(append([]string(nil), lines[:r.MaxLines]...), "... (output truncated)")
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		ReplyTitleStyle.Render(r.Title),
		"",
		ReplyContentStyle.Render(strings.Join(lines, "\n")),
	)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (r *ReplyOutput) String() string {
	return r.Render()
}
