package ws

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/service"
)

// FeedHandler accepts the scanner-side websocket: gate controllers connect
// and push raw {type,data} frames. Frames are processed one at a time to
// completion; a malformed frame is discarded inside Ingest and the loop
// continues.
func FeedHandler(presenceService *service.PresenceService, logger *zap.Logger) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		logger.Info("feed connection opened", zap.String("remote", c.RemoteAddr().String()))
		defer logger.Info("feed connection closed", zap.String("remote", c.RemoteAddr().String()))

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			presenceService.Ingest(context.Background(), "websocket", msg)
		}
	})
}

// RequireUpgrade rejects plain HTTP requests on websocket routes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
