package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/cmd"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm/providers"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence/file"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/ratelimit"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/stages"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	sink := telemetry.NewPrometheusSink(registry)

	invoker := llm.NewInvoker(providers.NewMock(), llm.WithSink(sink))
	pipeline := stages.NewPipeline(invoker, file.NewPersistence(logger, t.TempDir()), stages.WithLogger(logger))

	api := NewAPI(
		logger,
		pipeline,
		ratelimit.NewMemory(ratelimit.Config{Limit: 100, Window: time.Minute}),
		sink,
		nil,
		registry,
		"",
	)

	return api.App()
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "SEO Decision Engine API", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t)

	for _, path := range []string{"/livez", "/readyz", "/health"} {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestAPI_IntentAndMetrics(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/intent", strings.NewReader(`{"keyword":"best crm software"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope struct {
		OK   bool `json:"ok"`
		Data struct {
			Keyword       string            `json:"keyword"`
			Opportunities []json.RawMessage `json:"opportunities"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, resp.Body.Close())

	assert.True(t, envelope.OK)
	assert.Equal(t, "best crm software", envelope.Data.Keyword)
	assert.GreaterOrEqual(t, len(envelope.Data.Opportunities), 5)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "seo_llm_calls_total")
}

func TestPresetsWithTimeout(t *testing.T) {
	presets := presetsWithTimeout(5 * time.Second)
	for preset, params := range presets {
		assert.Equal(t, 5*time.Second, params.Timeout, preset)
	}

	assert.Equal(t, llm.Presets(), presetsWithTimeout(0))
}

func TestSubscribe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus, err := cmd.NewEventBus("gochannel", "", logger)
	require.NoError(t, err)

	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, subscribe(ctx, bus, logger))
}
