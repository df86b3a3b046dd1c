package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"leadscope/internal/config"
	"leadscope/internal/infrastructure"
	"leadscope/pkg/contracts/events"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(config.WebSocketConfig{PingPeriod: time.Hour, PongWait: 2 * time.Hour}, nil,
		slog.New(slog.DiscardHandler))
	hub.Start()
	return hub
}

func decodeWritten(t *testing.T, conn *MockConnection) []events.WebSocketMessage {
	t.Helper()
	var out []events.WebSocketMessage
	for _, raw := range conn.Written() {
		var msg events.WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		out = append(out, msg)
	}
	return out
}

func typesOf(msgs []events.WebSocketMessage) []events.MessageType {
	out := make([]events.MessageType, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func TestNewHub_PingPeriodDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.WebSocketConfig
		wantPing time.Duration
		wantPong time.Duration
	}{
		{"zero config", config.WebSocketConfig{}, 54 * time.Second, 60 * time.Second},
		{"explicit", config.WebSocketConfig{PingPeriod: 10 * time.Second, PongWait: 20 * time.Second}, 10 * time.Second, 20 * time.Second},
		{"ping not below pong", config.WebSocketConfig{PingPeriod: 30 * time.Second, PongWait: 30 * time.Second}, 27 * time.Second, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(tt.cfg, nil, slog.New(slog.DiscardHandler))
			assert.Equal(t, tt.wantPing, hub.pingPeriod)
			assert.Equal(t, tt.wantPong, hub.pongWait)
		})
	}
}

func TestHub_AttachSendsConnectMessage(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := newTestHub(t)
	defer hub.Stop()

	conn := NewMockConnection()
	client := hub.Attach(conn, "trace-1")

	require.Eventually(t, func() bool { return len(conn.Written()) == 1 }, time.Second, 5*time.Millisecond)
	msgs := decodeWritten(t, conn)
	assert.Equal(t, events.MessageTypeConnect, msgs[0].Type)
	assert.Equal(t, "trace-1", msgs[0].TraceID)
	assert.Equal(t, map[string]any{"clientId": client.ID()}, msgs[0].Data)
	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, int64(maxMessageSize), conn.ReadLimit)
}

func TestHub_PublishReachesEveryClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := newTestHub(t)
	defer hub.Stop()

	first, second := NewMockConnection(), NewMockConnection()
	hub.Attach(first, "")
	hub.Attach(second, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	ctx := infrastructure.WithTraceID(context.Background(), "req-42")
	hub.Publish(ctx, events.MessageTypeUploadParsed, events.UploadProgress{RequestID: "req-42", TotalRows: 3, ValidRows: 2, InvalidRows: 1})

	for _, conn := range []*MockConnection{first, second} {
		require.Eventually(t, func() bool { return len(conn.Written()) == 2 }, time.Second, 5*time.Millisecond)
		msgs := decodeWritten(t, conn)
		assert.Equal(t, []events.MessageType{events.MessageTypeConnect, events.MessageTypeUploadParsed}, typesOf(msgs))
		assert.Equal(t, "req-42", msgs[1].TraceID)
		data, ok := msgs[1].Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), data["validRows"])
	}
}

func TestHub_ReadErrorUnregistersClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := newTestHub(t)
	defer hub.Stop()

	conn := NewMockConnection()
	hub.Attach(conn, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.AddReadMessage(0, nil, errors.New("peer went away"))

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, conn.IsClosed, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := newTestHub(t)
	conn := NewMockConnection()
	hub.Attach(conn, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	hub.Stop()

	assert.Equal(t, 0, hub.ClientCount())
	require.Eventually(t, conn.IsClosed, time.Second, 5*time.Millisecond)

	// A stopped hub refuses new clients and ignores events.
	late := NewMockConnection()
	hub.Attach(late, "")
	assert.True(t, late.IsClosed())
	hub.Publish(context.Background(), events.MessageTypeUploadFailed, nil)
}

func TestHub_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(config.WebSocketConfig{}, nil, slog.New(slog.DiscardHandler))
	hub.Stop()
	assert.False(t, hub.Register(newClient(hub, NewMockConnection(), "")))
}
