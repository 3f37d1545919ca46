package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence/postgresql"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/testutil"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"result_bundles", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("seo_test"),
			postgres.WithUsername("seo"),
			postgres.WithPassword("seo"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = store.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return store, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'result_bundles')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "result_bundles table should exist")

	var version int

	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestNewPersistence_MigrationsAreIdempotent(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	again, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)
	require.NoError(t, again.Close(ctx))
}

func TestPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	assert.NoError(t, p.HealthCheck(ctx))
}

func TestPersistence_RoundTrip(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	bundle := testutil.CreateTestBundle("best-crm-software-a1b2c3", time.Now())
	require.NoError(t, p.Save(ctx, bundle))

	got, err := p.Get(ctx, bundle.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bundle, got)

	bundle.Draft.Title = "Second version"
	require.NoError(t, p.Save(ctx, bundle))

	got, err = p.Get(ctx, bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second version", got.Draft.Title)
}

func TestPersistence_GetAbsent(t *testing.T) {
	p, ctx, databaseURL := setupTestDB(t)

	got, err := p.Get(ctx, "missing-abc123")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = p.Get(ctx, "'; DROP TABLE result_bundles; --")
	require.NoError(t, err)
	assert.Nil(t, got)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, `INSERT INTO result_bundles (id, keyword, title, payload, published_at)
		VALUES ('broken-abc123', 'k', 't', '{"id":"broken-abc123","keyword":"k"}', NOW())`)
	require.NoError(t, err)

	got, err = p.Get(ctx, "broken-abc123")
	require.NoError(t, err)
	assert.Nil(t, got)

	summaries, err := p.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestPersistence_SaveRejects(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.Save(ctx, testutil.CreateTestBundle("Not Safe", time.Now()))
	assert.True(t, persistence.IsInvalidBundleID(err))

	err = p.Save(ctx, testutil.CreateTestBundle("bad-abc123", time.Now(), func(b *models.ResultBundle) {
		b.Analysis.Opportunities = nil
	}))
	assert.True(t, persistence.IsInvalidBundle(err))
}

func TestPersistence_List(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"first-aaaaaa", "second-bbbbbb", "third-cccccc"} {
		require.NoError(t, p.Save(ctx, testutil.CreateTestBundle(id, base.Add(time.Duration(i)*time.Hour))))
	}

	summaries, err := p.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, []string{"third-cccccc", "second-bbbbbb", "first-aaaaaa"},
		[]string{summaries[0].ID, summaries[1].ID, summaries[2].ID})
	assert.Equal(t, "best crm software", summaries[0].Keyword)
}
