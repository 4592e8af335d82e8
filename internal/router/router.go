package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/tonetrace-api/internal/config"
	"github.com/noah-isme/tonetrace-api/internal/handler"
	"github.com/noah-isme/tonetrace-api/internal/middleware"
	"github.com/noah-isme/tonetrace-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DatasetHandler   *handler.DatasetHandler
	AnalyticsHandler *handler.AnalyticsHandler
	RosterHandler    *handler.RosterHandler
	HealthProbes     map[string]handler.Probe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	// Registered after /health so the auth guards never run for it.
	guarded := api.Group("", middleware.TeacherOnly(cfg.JWTSecret)...)

	if deps.DatasetHandler != nil {
		deps.DatasetHandler.Register(
			guarded.Group("/dataset"),
			middleware.RateLimit("snapshots", cfg.SnapshotRateLimit, cfg.SnapshotRateWindow),
		)
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(guarded.Group("/analytics"))
	}
	if deps.RosterHandler != nil {
		deps.RosterHandler.Register(guarded)
	}
}
