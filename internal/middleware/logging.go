package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logging writes one structured line per request once the handler chain and
// the error handler have run.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := statusOf(c, err)

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start).String(),
			"ip", c.IP(),
			"request_id", GetRequestID(c),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			slog.Error("HTTP Request", append(attrs, "error", err)...)
		case status >= fiber.StatusBadRequest:
			slog.Warn("HTTP Request", attrs...)
		default:
			slog.Info("HTTP Request", attrs...)
		}
		return err
	}
}

// statusOf reports the status the client will see. When a handler returned an
// error the response has not been written yet, so the error decides.
func statusOf(c *fiber.Ctx, err error) int {
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}
