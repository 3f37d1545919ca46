package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config wires the HTTP app. Limiter, Gatherer and APISecret are optional.
type Config struct {
	Handlers  *APIHandlers
	Limiter   ratelimit.Limiter
	Gatherer  prometheus.Gatherer
	APISecret string
	Logger    *slog.Logger
}

// NewApp builds the fiber app and registers every route.
func NewApp(cfg Config, middleware ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "seo-decision-engine",
		ErrorHandler: ErrorHandler(cfg.Logger),
	})

	app.Use(RequestID())

	for _, m := range middleware {
		app.Use(m)
	}

	h := cfg.Handlers

	ready := healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return h.pipeline.HealthCheck(c.Context()) == nil
		},
	})

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, ready)
	app.Get("/health", h.HealthCheck)

	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", h.RequireAPIKey(cfg.APISecret), h.RateLimit(cfg.Limiter))
	api.Post("/intent", h.AnalyzeIntent)
	api.Post("/opportunity/approve", h.ReviewOpportunity)
	api.Post("/templates", h.ProposeTemplates)
	api.Post("/templates/approve", h.ReviewTemplate)
	api.Post("/content", h.GenerateContent)
	api.Post("/content/approve", h.ReviewContent)
	api.Post("/publish", h.Publish)
	api.Get("/results", h.ListResults)
	api.Get("/results/:id", h.GetResult)

	return app
}
