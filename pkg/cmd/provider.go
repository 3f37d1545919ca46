package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm/providers"
)

// NewProvider creates the model provider. A missing API key is not fatal:
// the server starts with no provider and every stage call reports
// MISSING_PROVIDER_KEY. Any other error is.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg providers.Config) (llm.Provider, error) {
	provider, err := providers.New(ctx, cfg)
	if errors.Is(err, providers.ErrMissingAPIKey) {
		logger.Error("model provider API key is not set, stage calls will fail", "provider", cfg.Name)

		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	logger.Info("model provider configured", "provider", provider.Name())

	return provider, nil
}
