// Package httpapi serves progress dashboards over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/huangsam/learnstat/internal/contract"
)

// NewApp builds the fiber application with its middleware and routes.
// This is exposed for unit testing.
func NewApp(baseCfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "learnstat",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: os.Stderr}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	h := &handler{baseCfg: baseCfg, client: client, mgr: mgr}

	app.Get("/healthz", h.healthz)
	api := app.Group("/api/progress")
	api.Post("/normalize", h.normalize)
	api.Get("/:session/dashboard", h.dashboard)
	api.Get("/:session/summary", h.summary)

	return app
}

// errorHandler wraps unhandled errors, including unknown routes, in the error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return failure(c, status, err)
}

// Serve listens on cfg.Listen until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) error {
	app := NewApp(cfg, client, mgr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Listen)
	}()
	_, _ = fmt.Fprintf(os.Stderr, "🌐 Serving progress API on %s\n", cfg.Listen)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	}
}
