// Package file provides the file-based result store.
package file

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
)

// Persistence implements persistence.ResultStore on the file system.
type Persistence struct {
	root   string
	logger *slog.Logger
}

// NewPersistence creates a file store rooted at root. A "file://" prefix is accepted.
func NewPersistence(logger *slog.Logger, root string) persistence.ResultStore {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:   cleanRoot,
		logger: logger.With("module", "file_persistence"),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}
