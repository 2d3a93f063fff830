package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PlayerIDKey is the fiber.Locals key holding the caller's player ID.
const PlayerIDKey = "playerID"

// EnsurePlayerID takes the player ID from the X-Player-ID header or the
// playerId query parameter and rejects requests that carry neither.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(PlayerIDKey).(string); ok && id != "" {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Header and query values alias fasthttp's request buffer, which is
		// reused after the handler returns. The ID outlives the request.
		c.Locals(PlayerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID reads the ID stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
