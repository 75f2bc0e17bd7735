package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
	"github.com/muurk/wizlocal/internal/transport/transporttest"
	"github.com/muurk/wizlocal/internal/ui"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "wizlocal-cmd")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CONFIG_HOME", dir)
	os.Setenv("HOME", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// execute runs the CLI with a recording sender in place of UDP
func execute(t *testing.T, sender transport.Sender, args ...string) (string, error) {
	t.Helper()
	prev := transport.DefaultSender
	transport.DefaultSender = sender
	t.Cleanup(func() { transport.DefaultSender = prev })

	ifaceName, logLevel, outputFormat = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBrightnessJSON(t *testing.T) {
	sender := transporttest.NewSender(1)
	out, err := execute(t, sender, "brightness", "10.0.0.5", "40", "--format", "json")
	require.NoError(t, err)

	reqs := sender.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "10.0.0.5", reqs[0].DestinationIP)
	assert.Equal(t, protocol.MethodSetPilot, reqs[0].Message.Method)

	var got commandOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.OK)
	assert.Equal(t, "10.0.0.5", got.Light)
	assert.Equal(t, protocol.MethodSetPilot, got.Method)
}

func TestBrightnessOutOfRangeSendsNothing(t *testing.T) {
	sender := transporttest.NewSender(1)
	out, err := execute(t, sender, "brightness", "10.0.0.5", "5", "--format", "json")
	require.ErrorIs(t, err, errReported)
	assert.Zero(t, sender.Count())

	var got commandOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.OK)
	require.NotNil(t, got.Error)
	assert.Equal(t, "validation", got.Error.Type)
}

func TestTimeoutReported(t *testing.T) {
	sender := transporttest.NewSender(1)
	sender.Fail(&transport.Error{Type: transport.ErrTypeTimeout, Message: "Timeout"})
	out, err := execute(t, sender, "on", "10.0.0.5", "--format", "json")
	require.ErrorIs(t, err, errReported)

	var got commandOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Error)
	assert.Equal(t, transport.ErrTypeTimeout.String(), got.Error.Type)
	assert.Equal(t, "Timeout", got.Error.Message)
}

func TestUnknownTarget(t *testing.T) {
	_, err := execute(t, transporttest.NewSender(1), "off", "nosuchlight")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errReported))
	assert.Contains(t, err.Error(), "unknown light")
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    protocol.Color
		wantErr bool
	}{
		{"#ff8800", protocol.Color{R: 255, G: 136, B: 0}, false},
		{"00ff10", protocol.Color{R: 0, G: 255, B: 16}, false},
		{"255, 0, 64", protocol.Color{R: 255, G: 0, B: 64}, false},
		{"1,2", protocol.Color{}, true},
		{"#zzzzzz", protocol.Color{}, true},
		{"#fff", protocol.Color{}, true},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLookupScene(t *testing.T) {
	s, err := lookupScene("party")
	require.NoError(t, err)
	assert.Equal(t, 4, s.ID)

	s, err = lookupScene("4")
	require.NoError(t, err)
	assert.Equal(t, "Party", s.Name)

	_, err = lookupScene("disco inferno")
	assert.Error(t, err)
}

func TestWriteInbound(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	on := true
	dim := 40
	push := &protocol.SyncPilot{Params: protocol.PilotState{Mac: "a8bb50a4f94d", State: &on, Dimming: &dim}}

	format = ui.FormatDetailed
	var buf bytes.Buffer
	writeInbound(&buf, push, "10.0.0.5", at)
	assert.Contains(t, buf.String(), "10.0.0.5")
	assert.Contains(t, buf.String(), "a8bb50a4f94d")
	assert.Contains(t, buf.String(), "40%")

	format = ui.FormatJSON
	defer func() { format = ui.FormatDetailed }()
	buf.Reset()
	writeInbound(&buf, push, "10.0.0.5", at)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "syncPilot", ev["type"])
	assert.Equal(t, "10.0.0.5", ev["ip"])
}
