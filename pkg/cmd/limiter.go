package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/ratelimit"
)

// NewLimiter creates the redis limiter when redisURL is set and the
// in-process limiter otherwise. The choice is made once, at startup.
func NewLimiter(ctx context.Context, logger *slog.Logger, redisURL string, cfg ratelimit.Config) (ratelimit.Limiter, error) {
	if redisURL == "" {
		logger.Info("using in-process rate limiter", "limit", cfg.Limit, "window", cfg.Window)

		return ratelimit.NewMemory(cfg), nil
	}

	limiter, err := ratelimit.NewRedisFromURL(ctx, redisURL, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limiter: %w", err)
	}

	logger.Info("using redis rate limiter", "limit", cfg.Limit, "window", cfg.Window)

	return limiter, nil
}
