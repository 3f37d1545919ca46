package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
)

const resultsDir = "results"

// Save writes the bundle to <root>/results/<id>.json, replacing any previous
// record with the same id. The write goes through a temp file and a rename.
func (fp *Persistence) Save(_ context.Context, bundle *models.ResultBundle) error {
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

	dir := filepath.Join(fp.root, resultsDir)

	err = os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle %s: %w", bundle.ID, err)
	}

	tmp, err := os.CreateTemp(dir, bundle.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for bundle %s: %w", bundle.ID, err)
	}

	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Chmod(tmpName, 0600)
	}

	if err == nil {
		err = os.Rename(tmpName, fp.path(bundle.ID))
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to write bundle %s: %w", bundle.ID, err)
	}

	return nil
}

// Get reads a bundle. Unsafe ids, missing files and records that fail the
// bundle contract all report absent.
func (fp *Persistence) Get(_ context.Context, id string) (*models.ResultBundle, error) {
	if !models.SafeID(id) {
		return nil, nil
	}

	body, err := os.ReadFile(fp.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch bundle %s: %w", id, err)
	}

	return fp.decode(id, body), nil
}

// List returns the summaries of every readable bundle, newest first.
func (fp *Persistence) List(_ context.Context) ([]models.BundleSummary, error) {
	root := os.DirFS(filepath.Join(fp.root, resultsDir))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list bundle files: %w", err)
	}

	summaries := make([]models.BundleSummary, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := strings.TrimSuffix(name, ".json")
		if !models.SafeID(id) {
			continue
		}

		body, err := fs.ReadFile(root, name)
		if err != nil {
			fp.logger.Warn("skipping unreadable bundle", "bundle_id", id, "error", err)

			continue
		}

		bundle := fp.decode(id, body)
		if bundle == nil {
			continue
		}

		summaries = append(summaries, bundle.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].PublishedAt.After(summaries[j].PublishedAt)
	})

	return summaries, nil
}

func (fp *Persistence) path(id string) string {
	return filepath.Join(fp.root, resultsDir, id+".json")
}

// decode returns nil for records that do not parse or fail the bundle contract.
func (fp *Persistence) decode(id string, body []byte) *models.ResultBundle {
	var bundle models.ResultBundle

	err := json.Unmarshal(body, &bundle)
	if err != nil {
		fp.logger.Warn("discarding corrupt bundle record", "bundle_id", id, "error", err)

		return nil
	}

	if bundle.ID != id {
		fp.logger.Warn("discarding bundle record with mismatched id", "bundle_id", id, "record_id", bundle.ID)

		return nil
	}

	err = models.ValidateBundle(&bundle)
	if err != nil {
		fp.logger.Warn("discarding bundle record failing contract", "bundle_id", id, "error", err)

		return nil
	}

	return &bundle
}
