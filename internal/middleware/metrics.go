package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/metrics"
)

// Metrics records request count and latency per route pattern. Unmatched
// paths are folded into one label so arbitrary URLs cannot grow the series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := statusOf(c, err)
		path := c.Route().Path
		if status == fiber.StatusNotFound {
			path = "unmatched"
		}

		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		return err
	}
}
