package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
)

// Save upserts the bundle by id.
func (p *Persistence) Save(ctx context.Context, bundle *models.ResultBundle) error {
	if bundle == nil || !models.SafeID(bundle.ID) {
		id := ""
		if bundle != nil {
			id = bundle.ID
		}

		return persistence.NewBundleError("Save", id, persistence.ErrInvalidBundleID)
	}

	err := models.ValidateBundle(bundle)
	if err != nil {
		return &persistence.BundleError{Op: "Save", BundleID: bundle.ID, Err: persistence.ErrInvalidBundle, Message: err.Error()}
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle %s: %w", bundle.ID, err)
	}

	query := `
		INSERT INTO result_bundles (id, keyword, title, payload, published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			keyword = EXCLUDED.keyword,
			title = EXCLUDED.title,
			payload = EXCLUDED.payload,
			published_at = EXCLUDED.published_at,
			updated_at = NOW()`

	_, err = p.db.ExecContext(ctx, query, bundle.ID, bundle.Keyword, bundle.Draft.Title, payload, bundle.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to save bundle %s: %w", bundle.ID, err)
	}

	return nil
}

// Get returns nil, nil for unsafe ids, missing rows and rows whose payload
// fails the bundle contract.
func (p *Persistence) Get(ctx context.Context, id string) (*models.ResultBundle, error) {
	if !models.SafeID(id) {
		return nil, nil
	}

	var payload []byte

	err := p.db.QueryRowContext(ctx, "SELECT payload FROM result_bundles WHERE id = $1", id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get bundle %s: %w", id, err)
	}

	return p.decode(ctx, id, payload), nil
}

// List returns the summaries of every valid bundle, newest first.
func (p *Persistence) List(ctx context.Context) ([]models.BundleSummary, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id, payload FROM result_bundles ORDER BY published_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.BundleSummary, 0)

	for rows.Next() {
		var (
			id      string
			payload []byte
		)

		err := rows.Scan(&id, &payload)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bundle: %w", err)
		}

		bundle := p.decode(ctx, id, payload)
		if bundle == nil {
			continue
		}

		summaries = append(summaries, bundle.Summary())
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate bundles: %w", err)
	}

	return summaries, nil
}

func (p *Persistence) decode(ctx context.Context, id string, payload []byte) *models.ResultBundle {
	var bundle models.ResultBundle

	err := json.Unmarshal(payload, &bundle)
	if err != nil {
		p.logger.WarnContext(ctx, "discarding corrupt bundle record", "bundle_id", id, "error", err)

		return nil
	}

	if bundle.ID != id {
		p.logger.WarnContext(ctx, "discarding bundle record with mismatched id", "bundle_id", id, "record_id", bundle.ID)

		return nil
	}

	err = models.ValidateBundle(&bundle)
	if err != nil {
		p.logger.WarnContext(ctx, "discarding bundle record failing contract", "bundle_id", id, "error", err)

		return nil
	}

	return &bundle
}
