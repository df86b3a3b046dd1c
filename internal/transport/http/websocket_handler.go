package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"leadscope/internal/config"
	apierrors "leadscope/internal/errors"
	"leadscope/internal/middleware"
	ws "leadscope/internal/websocket"
)

// WebSocketHandler upgrades /ws requests and attaches them to the hub.
type WebSocketHandler struct {
	hub          *ws.Hub
	upgrader     websocket.Upgrader
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler. Origins are checked
// against allowedOrigins; requests without an Origin header are accepted.
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, allowedOrigins []string, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:          hub,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "websocket")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || middleware.OriginAllowed(allowedOrigins, origin) {
				return true
			}
			h.logger.WarnContext(r.Context(), "websocket origin not allowed",
				slog.String("origin", origin),
				slog.Any("allowed_origins", allowedOrigins))
			return false
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(status,
				apierrors.ErrWebSocketUpgrade.ErrorCode, apierrors.ErrWebSocketUpgrade.Message, reason.Error()))
		},
	}
	return h
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered through Error.
		h.logger.DebugContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	reqID := middleware.GetRequestID(r.Context())
	client := h.hub.Attach(ws.NewConnectionWrapper(conn), reqID)
	h.logger.InfoContext(r.Context(), "websocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr))
}
