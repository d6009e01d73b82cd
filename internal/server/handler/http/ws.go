package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/camwarden/camwarden/internal/notify"
)

// WSHandler upgrades alert-subscription requests to WebSocket connections
// and hands them to the notification hub.
type WSHandler struct {
	Hub *notify.Hub
	Log *zap.Logger

	upgrader websocket.Upgrader
}

// NewWSHandler constructs a WSHandler. Origin checking is left permissive:
// the bearer-token guard in front of this route is the access control.
func NewWSHandler(hub *notify.Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{
		Hub: hub,
		Log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /api/alerts/ws.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	notify.NewClient(h.Hub, conn, h.Log).Start()
}
