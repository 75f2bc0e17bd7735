package bridge

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/wizlocal/internal/protocol"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestEventType(t *testing.T) {
	assert.Equal(t, "syncPilot", EventType(&protocol.SyncPilot{}))
	assert.Equal(t, "firstBeat", EventType(&protocol.FirstBeat{}))
	assert.Equal(t, "response", EventType(&protocol.CommandResponse{Method: "getPilot"}))
	assert.Equal(t, "unknown", EventType(&protocol.UnknownMessage{}))
}

func TestPublishReachesAllClients(t *testing.T) {
	h := NewHub()
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, h, 2)

	dim := 40
	h.Publish(&protocol.SyncPilot{
		Method: protocol.MethodSyncPilot,
		Params: protocol.PilotState{Mac: "a8bb50a4f94d", Dimming: &dim},
		IP:     "10.0.0.5",
	}, "10.0.0.5")

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var got struct {
			Type       string          `json:"type"`
			IP         string          `json:"ip"`
			ReceivedAt time.Time       `json:"receivedAt"`
			Message    json.RawMessage `json:"message"`
		}
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "syncPilot", got.Type)
		assert.Equal(t, "10.0.0.5", got.IP)
		assert.True(t, got.ReceivedAt.Equal(h.now()))

		var msg protocol.SyncPilot
		require.NoError(t, json.Unmarshal(got.Message, &msg))
		assert.Equal(t, "a8bb50a4f94d", msg.Params.Mac)
		require.NotNil(t, msg.Params.Dimming)
		assert.Equal(t, 40, *msg.Params.Dimming)
	}
}

func TestPublishWithoutClients(t *testing.T) {
	h := NewHub()
	h.Publish(&protocol.UnknownMessage{Raw: json.RawMessage(`{}`)}, "10.0.0.9")
	h.Publish(nil, "10.0.0.9")
	assert.Equal(t, 0, h.ClientCount())
}

func TestSlowClientDropped(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	// Never read; the write pump blocks once socket buffers fill
	_ = dial(t, srv)
	waitClients(t, h, 1)

	big := &protocol.UnknownMessage{Raw: json.RawMessage(`"` + strings.Repeat("x", 64*1024) + `"`)}
	require.Eventually(t, func() bool {
		h.Publish(big, "10.0.0.9")
		return h.ClientCount() == 0
	}, 10*time.Second, time.Millisecond)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitClients(t, h, 1)

	require.NoError(t, conn.Close())
	waitClients(t, h, 0)
}

func TestCloseAll(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitClients(t, h, 1)

	h.CloseAll()
	assert.Equal(t, 0, h.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
