package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade lets only websocket handshakes for a named game, from an
// identified player, through to the upgrade handler.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch {
		case !websocket.IsWebSocketUpgrade(c):
			return fiber.ErrUpgradeRequired
		case c.Params("gameId") == "":
			return fiber.NewError(fiber.StatusBadRequest, "game ID is required")
		case PlayerID(c) == "":
			return fiber.NewError(fiber.StatusUnauthorized, "player ID is required")
		}
		return c.Next()
	}
}
