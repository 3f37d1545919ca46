package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence/file"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence/postgresql"
)

// NewStore creates the result store for databaseURL: postgres:// or
// postgresql:// selects PostgreSQL, anything else is a file:// URL or path.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.ResultStore, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		store, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres store: %w", err)
		}

		return store, nil
	default:
		root := strings.TrimPrefix(databaseURL, "file://")
		if root == "" {
			root = "./data"
		}

		if err := os.MkdirAll(root, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", root, err)
		}

		return file.NewPersistence(logger, root), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
