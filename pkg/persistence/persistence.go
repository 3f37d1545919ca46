// Package persistence provides the storage abstraction for published result bundles.
package persistence

import (
	"context"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
)

// ResultStore persists result bundles. Get returns nil, nil when a bundle is
// absent, including when its id is unsafe or its record fails the bundle
// contract.
type ResultStore interface {
	Save(ctx context.Context, bundle *models.ResultBundle) error
	Get(ctx context.Context, id string) (*models.ResultBundle, error)
	// List returns summaries ordered by published_at, newest first.
	List(ctx context.Context) ([]models.BundleSummary, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
