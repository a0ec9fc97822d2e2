package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/hub"
)

// LiveHandler serves the dashboard-side websocket: connected clients receive
// reconciled presence frames fanned out by the hub. The write loop drains
// the hub buffer; the read loop exists only to notice the client going away.
func LiveHandler(h *hub.Hub, logger *zap.Logger) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		client := &hub.Client{ID: uuid.NewString(), Send: make(chan []byte, 16)}
		h.Register(client)

		logger.Info("live client connected", zap.String("client_id", client.ID))
		defer logger.Info("live client disconnected", zap.String("client_id", client.ID))

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		h.Unregister(client)
		<-done
	})
}
