package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bcvictoria/tournament-system/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin UI and the hall display are served from other origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the connection and joins the event's room. The client
// receives every standings, bracket and schedule change for that event until
// it disconnects.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	event, err := getEventFromURL(r)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	h.hub.Register(live.NewClient(h.hub, conn, event))
}
