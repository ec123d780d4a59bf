// Package server exposes the summary pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// shutdownTimeout bounds how long in-flight requests get after the context ends.
const shutdownTimeout = 10 * time.Second

// Server wires the fiber app to a base configuration and the run history.
type Server struct {
	app     *fiber.App
	baseCfg *contract.Config
	mgr     contract.HistoryManager
	metrics *Metrics
}

// New builds the fiber app and registers every route. baseCfg supplies the
// defaults each request may override.
func New(baseCfg *contract.Config, mgr contract.HistoryManager, version string) *Server {
	s := &Server{
		baseCfg: baseCfg,
		mgr:     mgr,
		metrics: NewMetrics(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Trendbox " + version,
		ServerHeader:          "Trendbox/" + version,
		ReadTimeout:           time.Second * 20,
		WriteTimeout:          time.Second * 20,
		IdleTimeout:           time.Second * 120,
		BodyLimit:             16 * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New())
	app.Use(requestLogger())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(_ *fiber.Ctx, e any) {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Msgf("panic: %v\n%s\n", e, buf)
		},
	}))

	app.Get("/healthz", s.handleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	v1 := app.Group("/v1")
	v1.Get("/fields", s.handleFields)
	v1.Post("/summary/weekly", s.summaryHandler(schema.SixWeekVariant))
	v1.Post("/summary/monthly", s.summaryHandler(schema.TwelveMonthVariant))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("trendbox HTTP server listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	}
}

// errorHandler renders every error as {"error": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("Internal Server Error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
