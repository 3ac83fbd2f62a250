package middleware

import (
	"errors"
	"strconv"
	"time"

	"lockedin/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestMetrics records a counter and latency histogram per request, labeled
// by the registered route pattern rather than the raw URL to keep the label
// cardinality bounded.
func RequestMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
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

		path := c.Route().Path
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}
