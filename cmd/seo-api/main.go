package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultPort       = 3000
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
)

func main() {
	// A missing .env is fine; the environment alone can configure the server.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:                  "seo-api",
		Usage:                 "Serve the staged SEO decision pipeline",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "llm-provider",
				Usage:   "Model provider (openai, anthropic, gemini, mock)",
				Value:   "openai",
				Sources: cli.EnvVars("LLM_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "llm-model",
				Usage:   "Model name; empty selects the provider's default",
				Sources: cli.EnvVars("LLM_MODEL"),
			},
			&cli.DurationFlag{
				Name:    "llm-timeout",
				Usage:   "Per-call model timeout for every preset",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("LLM_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "API key for the openai provider",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-base-url",
				Usage:   "Base URL for OpenAI-compatible endpoints",
				Sources: cli.EnvVars("OPENAI_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "anthropic-api-key",
				Usage:   "API key for the anthropic provider",
				Sources: cli.EnvVars("ANTHROPIC_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "gemini-api-key",
				Usage:   "API key for the gemini provider",
				Sources: cli.EnvVars("GEMINI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the shared rate limiter; empty keeps limits in process",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Usage:   "Calls admitted per client per window",
				Value:   defaultRateLimit,
				Sources: cli.EnvVars("RATE_LIMIT"),
			},
			&cli.DurationFlag{
				Name:    "rate-window",
				Usage:   "Rate limit window",
				Value:   defaultRateWindow,
				Sources: cli.EnvVars("RATE_WINDOW"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Result store URL (file path, file:// or postgres://)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "api-secret",
				Usage:   "Shared secret required in X-API-Key on /api routes; empty disables the check",
				Sources: cli.EnvVars("API_SECRET"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers for the kafka event bus",
				Value:   "localhost:9092",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, logger, command)
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		slog.Error("API server exited with error", "error", err)
		os.Exit(1)
	}
}
