package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AccessLog logs one line per request. It expects the requestid middleware
// to run first.
func AccessLog(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid, _ := c.Locals("requestid").(string)

		reqLog := log.With().
			Str("rid", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error().Err(err)
		}
		ev.Int("status", status).
			Dur("dur", time.Since(start)).
			Msg("request completed")
		return err
	}
}
