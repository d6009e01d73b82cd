// Package notify pushes newly ingested alerts to connected WebSocket
// clients using a hub-client architecture.
package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Hub maintains the set of active clients and broadcasts alert payloads
// to them. Slow clients are dropped rather than allowed to block the
// broadcast path.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
}

// NewHub creates a new Hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run services client registration and broadcasts until ctx is canceled,
// then closes every remaining client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("alert subscriber connected", zap.Int("total", len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info("alert subscriber disconnected", zap.Int("total", len(h.clients)))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is too slow to keep.
					delete(h.clients, client)
					close(client.send)
					h.log.Warn("dropped slow alert subscriber", zap.Int("total", len(h.clients)))
				}
			}
		}
	}
}

// Broadcast serializes v and queues it for delivery to every connected
// client. It never blocks the caller: when the hub's queue is full the
// payload is dropped, since alert delivery is best-effort.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.log.Error("failed to marshal alert broadcast", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("alert broadcast queue full, dropping payload")
	}
}
