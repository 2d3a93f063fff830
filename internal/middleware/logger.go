package middleware

import (
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs each request with its status and latency.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start),
		})
		if player := PlayerID(c); player != "" {
			entry = entry.WithField("player", player)
		}
		if err != nil {
			entry.WithError(err).Warn("request failed")
			return err
		}
		entry.Debug("request")
		return nil
	}
}
