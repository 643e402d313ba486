package middleware

import (
	"time"

	"hotelchain/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request latency labelled by the matched route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		metrics.RecordAPIRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
