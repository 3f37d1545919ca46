package file

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Persistence, string) {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewPersistence(logger, dir).(*Persistence), dir
}

func TestNewPersistence(t *testing.T) {
	logger := slog.Default()

	fp := NewPersistence(logger, "/tmp/test").(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)

	fp = NewPersistence(logger, "file:///tmp/test").(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_CloseAndHealth(t *testing.T) {
	store, _ := newStore(t)
	assert.NoError(t, store.Close(t.Context()))
	assert.NoError(t, store.HealthCheck(t.Context()))

	missing := NewPersistence(slog.Default(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, missing.HealthCheck(t.Context()), os.ErrNotExist)
}

func TestPersistence_RoundTrip(t *testing.T) {
	store, dir := newStore(t)
	bundle := testutil.CreateTestBundle("best-crm-software-a1b2c3", time.Now())

	require.NoError(t, store.Save(t.Context(), bundle))

	info, err := os.Stat(filepath.Join(dir, "results", "best-crm-software-a1b2c3.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Get(t.Context(), bundle.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bundle, got)

	leftovers, err := filepath.Glob(filepath.Join(dir, "results", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPersistence_SaveOverwrites(t *testing.T) {
	store, _ := newStore(t)
	bundle := testutil.CreateTestBundle("best-crm-software-a1b2c3", time.Now())

	require.NoError(t, store.Save(t.Context(), bundle))

	bundle.Draft.Title = "Updated title"
	require.NoError(t, store.Save(t.Context(), bundle))

	got, err := store.Get(t.Context(), bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated title", got.Draft.Title)
}

func TestPersistence_GetAbsent(t *testing.T) {
	store, dir := newStore(t)

	writeRecord := func(t *testing.T, id, content string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "results"), 0750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "results", id+".json"), []byte(content), 0600))
	}

	tests := []struct {
		name  string
		id    string
		setup func(t *testing.T)
	}{
		{name: "missing", id: "never-saved-abc123"},
		{name: "traversal", id: "../../etc/passwd"},
		{name: "uppercase", id: "Bad-ID"},
		{
			name:  "corrupt json",
			id:    "corrupt-abc123",
			setup: func(t *testing.T) { t.Helper(); writeRecord(t, "corrupt-abc123", "{not json") },
		},
		{
			name:  "contract violation",
			id:    "empty-abc123",
			setup: func(t *testing.T) { t.Helper(); writeRecord(t, "empty-abc123", `{"id":"empty-abc123"}`) },
		},
		{
			name: "mismatched id",
			id:   "renamed-abc123",
			setup: func(t *testing.T) {
				t.Helper()
				require.NoError(t, store.Save(t.Context(), testutil.CreateTestBundle("original-abc123", time.Now())))
				require.NoError(t, os.Rename(
					filepath.Join(dir, "results", "original-abc123.json"),
					filepath.Join(dir, "results", "renamed-abc123.json"),
				))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}

			got, err := store.Get(t.Context(), tt.id)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestPersistence_SaveRejects(t *testing.T) {
	store, dir := newStore(t)

	err := store.Save(t.Context(), testutil.CreateTestBundle("../escape", time.Now()))
	assert.True(t, persistence.IsInvalidBundleID(err))

	err = store.Save(t.Context(), nil)
	assert.True(t, persistence.IsInvalidBundleID(err))

	unapproved := testutil.CreateTestBundle("unapproved-abc123", time.Now(), func(b *models.ResultBundle) {
		b.DraftApproval.Approved = false
	})
	err = store.Save(t.Context(), unapproved)
	assert.True(t, persistence.IsInvalidBundle(err))

	_, statErr := os.Stat(filepath.Join(dir, "results", "unapproved-abc123.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPersistence_List(t *testing.T) {
	store, dir := newStore(t)

	summaries, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, summaries)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"first-aaaaaa", "second-bbbbbb", "third-cccccc"} {
		require.NoError(t, store.Save(t.Context(), testutil.CreateTestBundle(id, base.Add(time.Duration(i)*time.Hour))))
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "results", "broken-dddddd.json"), []byte("nope"), 0600))

	summaries, err = store.List(t.Context())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "third-cccccc", summaries[0].ID)
	assert.Equal(t, "second-bbbbbb", summaries[1].ID)
	assert.Equal(t, "first-aaaaaa", summaries[2].ID)
	assert.Equal(t, "Best CRM Software: A Practical Guide", summaries[0].Title)
	assert.Equal(t, base.Add(2*time.Hour), summaries[0].PublishedAt)
}
