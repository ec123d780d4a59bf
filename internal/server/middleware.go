package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// requestLogger writes one structured line per request once the handler chain returns.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("component", "httpreq").
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int("size", len(c.Response().Body())).
			Dur("duration", time.Since(start)).
			Msg("received request")
		return err
	}
}
