package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/blessy-devops/automedia-app-sub002/internal/handler"
	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health     *handler.HealthHandler
	Enrichment *handler.EnrichmentHandler
	Task       *handler.TaskHandler
	Channel    *handler.ChannelHandler
	Stats      *handler.StatsHandler
	Production *handler.ProductionHandler
	Radar      *handler.RadarHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	readLimit := middleware.NewReadRateLimiter().Handler()
	enrichLimit := middleware.NewEnrichRateLimiter().Handler()
	productionLimit := middleware.NewProductionRateLimiter().Handler()
	radarLimit := middleware.NewRadarRunRateLimiter().Handler()
	statsLimit := middleware.NewStatsRateLimiter().Handler()

	// Enrichment routes
	api.Post("/enrichment/start", h.Enrichment.Start, enrichLimit)
	api.Post("/enrichment/steps/:step/retry", h.Enrichment.RetryStep, enrichLimit)

	// Task routes
	api.Get("/tasks/:taskId", h.Task.Get, readLimit)

	// Channel routes
	api.Get("/channels/:channelId", h.Channel.GetByChannelID, readLimit)
	api.Get("/channels/:channelId/videos", h.Channel.Videos, readLimit)

	// Stats routes
	api.Get("/dashboard/stats", h.Stats.Dashboard, statsLimit)

	// Production routes
	api.Post("/production/tick", h.Production.Tick, productionLimit)
	api.Post("/production/distribute", h.Production.Distribute, productionLimit)
	api.Post("/production/:id/release", h.Production.Release, productionLimit)

	// Radar routes
	api.Post("/radar/run", h.Radar.Run, radarLimit)
}
