package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"leadscope/internal/config"
	"leadscope/internal/infrastructure"
	"leadscope/pkg/contracts/events"
)

// broadcastBuffer bounds queued events. Publish never blocks the upload
// pipeline; events beyond the buffer are dropped.
const broadcastBuffer = 64

// Hub maintains the set of active clients and broadcasts messages to them.
// All client bookkeeping happens on the hub goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	pingPeriod time.Duration
	pongWait   time.Duration

	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu       sync.Mutex
	running  bool
	count    int
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub. metrics may be nil.
func NewHub(cfg config.WebSocketConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	pongWait := cfg.PongWait
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	pingPeriod := cfg.PingPeriod
	if pingPeriod <= 0 || pingPeriod >= pongWait {
		pingPeriod = (pongWait * 9) / 10
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine. Calling it again is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop closes every client and waits for the hub loop to exit.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
		h.mu.Lock()
		running := h.running
		h.mu.Unlock()
		if running {
			<-h.done
		}
	})
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount(len(h.clients))
			h.metrics.TrackWebSocketClient(client.logContext(), 1)
			h.logger.InfoContext(client.logContext(), "client registered",
				slog.String("client_id", client.id),
				slog.Int("clients", len(h.clients)))
			if msg, err := encode(events.NewMessage(events.MessageTypeConnect, client.traceID,
				map[string]string{"clientId": client.id})); err == nil {
				client.send <- msg
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.InfoContext(client.logContext(), "client unregistered",
					slog.String("client_id", client.id),
					slog.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.remove(client)
					h.logger.Warn("dropping slow client", slog.String("client_id", client.id))
				}
			}
		}
	}
}

// remove must only be called from run.
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setCount(len(h.clients))
	h.metrics.TrackWebSocketClient(client.logContext(), -1)
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Attach registers conn as a new client and starts its pumps.
func (h *Hub) Attach(conn Connection, traceID string) *Client {
	client := newClient(h, conn, traceID)
	if !h.Register(client) {
		conn.Close()
		return client
	}
	go client.WritePump()
	go client.ReadPump()
	return client
}

// Register adds client to the hub. It reports false once the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Publish broadcasts an event of type t to every client. The trace id of ctx
// is stamped on the message.
func (h *Hub) Publish(ctx context.Context, t events.MessageType, data any) {
	msg, err := encode(events.NewMessage(t, infrastructure.GetTraceID(ctx), data))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode event",
			slog.String("type", string(t)),
			slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.quit:
	default:
		h.logger.WarnContext(ctx, "event dropped, broadcast queue full", slog.String("type", string(t)))
	}
}

func encode(msg events.WebSocketMessage) ([]byte, error) {
	return json.Marshal(msg)
}
