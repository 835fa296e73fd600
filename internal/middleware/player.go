package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PlayerIDKey is the Locals key holding the caller's player id.
const PlayerIDKey = "playerID"

const maxPlayerIDLen = 64

// EnsurePlayerID resolves the caller's player id from the X-Player-ID header
// or the playerId query parameter and stores it for PlayerID. Ids in reserved
// belong to the server (the engine's seat) and are refused.
func EnsurePlayerID(reserved ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := strings.TrimSpace(c.Get("X-Player-ID"))
		if playerID == "" {
			playerID = strings.TrimSpace(c.Query("playerId"))
		}
		switch {
		case playerID == "":
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		case len(playerID) > maxPlayerIDLen:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player ID is too long",
			})
		}
		for _, id := range reserved {
			if strings.EqualFold(playerID, id) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "player ID " + playerID + " is reserved",
				})
			}
		}

		// The id outlives the request as a seat owner and connection key, so it
		// must not alias fasthttp's reused buffers. Locals survive the websocket
		// upgrade, so the game socket sees it too.
		c.Locals(PlayerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "".
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
