package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/cmd"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/events"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm/providers"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/otelhelper"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/ratelimit"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/stages"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	cli "github.com/urfave/cli/v3"
)

const serviceName = "seo-decision-engine"

func run(ctx context.Context, logger *slog.Logger, command *cli.Command) error {
	logger.InfoContext(ctx, "Initializing SEO decision engine API")

	if command.Bool("otel-enabled") {
		shutdown, err := otelhelper.Setup(ctx, serviceName)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down tracer provider", "error", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sink := telemetry.Multi(
		telemetry.NewLogSink(logger),
		telemetry.NewPrometheusSink(registry),
	)

	provider, err := cmd.NewProvider(ctx, logger, providers.Config{
		Name:          command.String("llm-provider"),
		Model:         command.String("llm-model"),
		OpenAIKey:     command.String("openai-api-key"),
		OpenAIBaseURL: command.String("openai-base-url"),
		AnthropicKey:  command.String("anthropic-api-key"),
		GeminiKey:     command.String("gemini-api-key"),
	})
	if err != nil {
		return err
	}

	invoker := llm.NewInvoker(provider,
		llm.WithSink(sink),
		llm.WithLogger(logger),
		llm.WithPresets(presetsWithTimeout(command.Duration("llm-timeout"))),
	)

	store, err := cmd.NewStore(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("Failed to close result store", "error", err)
		}
	}()

	limiter, err := cmd.NewLimiter(ctx, logger, command.String("redis-url"), ratelimit.Config{
		Limit:  command.Int("rate-limit"),
		Window: command.Duration("rate-window"),
	})
	if err != nil {
		return err
	}

	if closer, ok := limiter.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close rate limiter", "error", err)
			}
		}()
	}

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	if err := subscribe(ctx, eventBus, logger); err != nil {
		return err
	}

	pipeline := stages.NewPipeline(invoker, store,
		stages.WithPublisher(eventBus),
		stages.WithLogger(logger),
	)

	api := NewAPI(logger, pipeline, limiter, sink, eventBus, registry, command.String("api-secret"))

	err = api.Start(ctx, command.Int("port"))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to start API server", "error", err)

		return err
	}

	return nil
}

func presetsWithTimeout(timeout time.Duration) map[llm.Preset]llm.Params {
	presets := llm.Presets()
	if timeout <= 0 {
		return presets
	}

	for preset, params := range presets {
		params.Timeout = timeout
		presets[preset] = params
	}

	return presets
}

// subscribe logs pipeline events. Other processes can consume the same
// topic when the bus is kafka.
func subscribe(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	err := bus.Handle(events.BundlePublishedEvent, func(ctx context.Context, event any) error {
		published, ok := event.(*events.BundlePublished)
		if !ok {
			return fmt.Errorf("unexpected event %T", event)
		}

		logger.InfoContext(ctx, "bundle published",
			"bundle_id", published.BundleID,
			"keyword", published.Keyword,
			"request_id", published.RequestID)

		return nil
	})
	if err != nil {
		return err
	}

	err = bus.Handle(events.StageFailedEvent, func(ctx context.Context, event any) error {
		failed, ok := event.(*events.StageFailed)
		if !ok {
			return fmt.Errorf("unexpected event %T", event)
		}

		logger.WarnContext(ctx, "stage failed",
			"endpoint", failed.Endpoint,
			"code", failed.Code,
			"status", failed.Status,
			"request_id", failed.RequestID)

		return nil
	})
	if err != nil {
		return err
	}

	return bus.Subscribe(ctx)
}
