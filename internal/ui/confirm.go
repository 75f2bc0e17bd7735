package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmPhrase is what the user must type to approve a dangerous operation
const ConfirmPhrase = "I AGREE"

// Confirmation describes a dangerous operation
type Confirmation struct {
	Title      string
	Warnings   []string
	Disclaimer string
}

// Confirm displays a warning box on out and reads one line from in. It
// returns true only if the user typed ConfirmPhrase.
func (c Confirmation) Confirm(in io.Reader, out io.Writer) bool {
	width := GetTerminalWidth()

	var lines []string

	titleLine := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, c.Title))
	lines = append(lines, "", titleLine, "")

	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range c.Warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	// Disclaimer in muted text, word-wrapped
	if c.Disclaimer != "" {
		disclaimerStyle := lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3)
		lines = append(lines, disclaimerStyle.Render(c.Disclaimer), "")
	}

	_, _ = fmt.Fprintln(out, resultBoxStyle(width, WarningColor).Render(strings.Join(lines, "\n")))
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", ConfirmPhrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	if strings.TrimSpace(input) == ConfirmPhrase {
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	_, _ = fmt.Fprintln(out)
	return false
}

// ResetConfirmation is the confirmation shown before a factory reset
func ResetConfirmation(light string) Confirmation {
	return Confirmation{
		Title: "FACTORY RESET",
		Warnings: []string{
			"The light at " + light + " will forget its WiFi network",
			"It will leave its home, room and group",
			"You will need the WiZ app or AP mode to set it up again",
		},
		Disclaimer: "A reset cannot be undone from this tool once the light " +
			"has dropped off the network.",
	}
}

// ModelConfigConfirmation is the confirmation shown before setModelConfig
func ModelConfigConfirmation(light string) Confirmation {
	return Confirmation{
		Title: "HARDWARE MODEL CONFIGURATION",
		Warnings: []string{
			"This changes low-level driver parameters of " + light,
			"Wrong PWM or channel settings can make the light flicker or stay dark",
			"A factory reset may be required to recover",
		},
		Disclaimer: "DISCLAIMER: This software is provided as-is, without warranty of any kind. " +
			"The authors accept no responsibility for any damage to your device.",
	}
}
