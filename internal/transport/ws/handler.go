package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"blanks/internal/app"
)

// Handler handles WebSocket connections.
type Handler struct {
	hub      *app.GameHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *app.GameHub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. Identity is the display name
// sent in the join message; reconnecting is rejoining under the same name
// within the grace period.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := r.URL.Query().Get("room")
	if roomCode == "" {
		http.Error(w, "room is required", http.StatusBadRequest)
		return
	}

	session, err := h.hub.GetSession(strings.ToUpper(roomCode))
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.New().String()
	client := NewClient(conn, session, connID, h.logger)

	h.logger.Info("websocket connected", "room", session.Code(), "conn", connID)

	client.Run()
}
