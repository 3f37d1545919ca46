// Package main provides the SEO decision engine API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/ratelimit"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/stages"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/telemetry"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
)

type API struct {
	logger    *slog.Logger
	pipeline  *stages.Pipeline
	limiter   ratelimit.Limiter
	sink      telemetry.Sink
	eventBus  eventbus.EventBus
	registry  *prometheus.Registry
	apiSecret string
}

func NewAPI(
	logger *slog.Logger,
	pipeline *stages.Pipeline,
	limiter ratelimit.Limiter,
	sink telemetry.Sink,
	eventBus eventbus.EventBus,
	registry *prometheus.Registry,
	apiSecret string,
) *API {
	return &API{
		logger:    logger,
		pipeline:  pipeline,
		limiter:   limiter,
		sink:      sink,
		eventBus:  eventBus,
		registry:  registry,
		apiSecret: apiSecret,
	}
}

func (a *API) App() *fiber.App {
	var publisher eventbus.EventPublisher
	if a.eventBus != nil {
		publisher = a.eventBus
	}

	handlers := web.NewAPIHandlers(a.pipeline, a.sink, publisher, a.logger)

	cfg := web.Config{
		Handlers:  handlers,
		Limiter:   a.limiter,
		APISecret: a.apiSecret,
		Logger:    a.logger,
	}

	if a.registry != nil {
		cfg.Gatherer = a.registry
	}

	app := web.NewApp(cfg,
		cors.New(),
		logger.New(logger.Config{
			DisableColors: true,
		}),
	)

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("SEO Decision Engine API")
	})

	return app
}

// Start serves until ctx is cancelled, then shuts the app down.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("API server listening", "port", port)

		errCh <- app.Listen(":"+strconv.Itoa(port), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down API server")

		err := app.Shutdown()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	}
}
