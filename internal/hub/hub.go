package hub

import (
	"sync"

	"go.uber.org/zap"
)

// Client is one connected live-feed consumer. Send is drained by the
// transport goroutine that owns the connection.
type Client struct {
	ID   string
	Send chan []byte
}

// Hub fans reconciled presence frames out to connected dashboard clients.
// A slow client loses frames rather than blocking the rest: every frame is a
// full snapshot republished on the feed's own cadence, so a dropped one is
// superseded by the next.
type Hub struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	clients map[string]*Client
}

// New creates an empty hub.
func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, clients: make(map[string]*Client)}
}

// Register adds a client to the fanout set.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

// Broadcast delivers payload to every registered client, dropping it for
// clients whose send buffer is full.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			h.logger.Debug("dropping frame for slow client", zap.String("client_id", client.ID))
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
