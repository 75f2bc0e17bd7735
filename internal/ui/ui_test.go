package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
)

// testContext stands in for t.Context, which needs Go 1.24.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatDetailed, false},
		{"detailed", FormatDetailed, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrinterJSONSkipsHeader(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	p.PrintHeader("Get Pilot", "wizlocal pilot get 10.0.0.5")
	assert.Empty(t, buf.String())

	require.NoError(t, p.PrintJSON(map[string]int{"dimming": 40}))
	assert.Contains(t, buf.String(), `"dimming": 40`)
}

func TestTroubleshootingValidation(t *testing.T) {
	err := protocol.Validate(protocol.NewBrightnessMessage(5), protocol.ValidateOptions{})
	require.Error(t, err)

	tips := Troubleshooting(err)
	require.NotEmpty(t, tips)
	assert.Contains(t, tips[0], "dimming")
}

func TestTroubleshootingOther(t *testing.T) {
	assert.Nil(t, Troubleshooting(errors.New("plain")))
}

func TestFailureResultRendersError(t *testing.T) {
	out := NewErrorResult("Brightness failed", errors.New("Timeout")).SetWidth(80).Render()
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Timeout")
}

func TestReplyOutputTruncates(t *testing.T) {
	r := NewReplyOutput([]byte(`{"method":"getPilot","result":{"state":true,"dimming":40}}`), []byte("not json"))
	assert.Contains(t, r.Lines, "not json")

	out := r.SetWidth(80).SetMaxLines(2).Render()
	assert.Contains(t, out, "output truncated")
}

func TestConfirmation(t *testing.T) {
	c := ResetConfirmation("10.0.0.5")

	var out bytes.Buffer
	assert.True(t, c.Confirm(strings.NewReader("I AGREE\n"), &out))
	assert.Contains(t, out.String(), "FACTORY RESET")

	out.Reset()
	assert.False(t, c.Confirm(strings.NewReader("yes\n"), &out))
	assert.Contains(t, out.String(), "cancelled")

	out.Reset()
	assert.False(t, c.Confirm(strings.NewReader(""), &out))
}

func TestRunnerSuccessAndFailure(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:      "Register Lights",
		Command:    "wizlocal register --all",
		TotalSteps: 2,
		StepNames:  []string{"first", "second"},
		Verbose:    true,
		Output:     &out,
	})
	r.AddReply([]byte(`{"method":"registration","result":{"success":true}}`))

	details, err := r.Run(testContext(t), func(onStep StepCallback) ([]Detail, error) {
		r.Replied(1, "a8bb50a4f94d")
		onStep(1, "", StepComplete, "")
		onStep(2, "", StepSkipped, "Timeout")
		onStep(9, "", StepComplete, "") // out of range is ignored
		return []Detail{{Key: "Interface", Value: "eth0"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Contains(t, out.String(), "Register Lights complete")
	assert.Contains(t, out.String(), "reply from a8bb50a4f94d")
	assert.Contains(t, out.String(), "1/2 answered")
	assert.Contains(t, out.String(), "Raw Replies")
	assert.Equal(t, []string{"a8bb50a4f94d"}, r.Responders())

	out.Reset()
	_, err = r.Run(testContext(t), func(onStep StepCallback) ([]Detail, error) {
		return nil, errors.New("Timeout")
	})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Register Lights failed")
}

func TestProgressTracksResponders(t *testing.T) {
	p := NewProgress(3, []string{"Broadcast 1", "Broadcast 2"}, 80)
	require.Equal(t, 3, p.Len())

	step, ok := p.Step(2)
	require.True(t, ok)
	assert.Equal(t, "Broadcast 2", step.Name)
	assert.Equal(t, StepPending, step.Status)

	_, ok = p.Update(4, "", StepComplete, "")
	assert.False(t, ok)

	p.AddReply(1, "a8bb50a4f94d")
	p.AddReply(2, "a8bb50a10001")
	p.AddReply(3, "a8bb50a4f94d")
	p.AddReply(3, "") // ignored
	step, ok = p.Update(3, "Broadcast 3", StepComplete, "")
	require.True(t, ok)
	assert.Equal(t, "Broadcast 3", step.Name)
	assert.Contains(t, p.renderStepLine(step), "reply from a8bb50a4f94d")

	assert.Equal(t, 3, p.Answered())
	assert.Equal(t, []string{"a8bb50a10001", "a8bb50a4f94d"}, p.Responders())
	assert.Equal(t, []Detail{
		{Key: "Answered", Value: "3 of 3"},
		{Key: "Lights", Value: "a8bb50a10001, a8bb50a4f94d"},
	}, p.Details())
	assert.Contains(t, p.Summary(), "3/3 answered")

	skipped, _ := p.Update(1, "", StepSkipped, "Timeout")
	assert.Contains(t, p.renderStepLine(skipped), "(Timeout)")
}

func newTestMonitor() Monitor {
	m := NewMonitor("eth0", nil)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m
}

func TestMonitorRecordsPushes(t *testing.T) {
	var model tea.Model = newTestMonitor()

	push := &protocol.SyncPilot{Method: protocol.MethodSyncPilot, Params: protocol.PilotState{
		Mac:     "a8bb50a4f94d",
		State:   boolp(true),
		Dimming: intp(40),
		Rssi:    intp(-61),
	}}
	model, _ = model.Update(PushMsg{Msg: push, IP: "10.0.0.5"})
	model, _ = model.Update(PushMsg{Msg: push, IP: "10.0.0.5"})
	model, _ = model.Update(PushMsg{Msg: &protocol.FirstBeat{Params: protocol.FirstBeatParams{Mac: "a8bb50a4f94e"}}, IP: "10.0.0.2"})
	model, _ = model.Update(PushMsg{Msg: &protocol.UnknownMessage{}, IP: "10.0.0.9"})

	m := model.(Monitor)
	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "10.0.0.2", rows[0].IP)
	assert.Equal(t, "boot", rows[0].State)
	assert.Equal(t, "on", rows[1].State)
	assert.Equal(t, "40%", rows[1].Dimming)
	assert.Equal(t, "-61", rows[1].Rssi)
	assert.Equal(t, 2, rows[1].Pushes)

	view := m.View()
	assert.Contains(t, view, "2 lights")
	assert.Contains(t, view, "1 other messages")
}

func TestMonitorKeys(t *testing.T) {
	refreshed := 0
	m := newTestMonitor()
	m.Refresh = func() error {
		refreshed++
		return transport.MalformedResponse(nil)
	}

	var model tea.Model = m
	model, _ = model.Update(PushMsg{Msg: &protocol.SyncPilot{}, IP: "10.0.0.5"})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Empty(t, model.(Monitor).Rows())

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	model, _ = model.Update(cmd())
	assert.Equal(t, 1, refreshed)
	assert.Contains(t, model.View(), "Re-register failed")

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
