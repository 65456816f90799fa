package ubersuggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestProviderFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "jp", r.URL.Query().Get("country"))
		w.Write([]byte(`{"keyword": "格安SIM", "seo_difficulty": 71.2, "search_volume": 33100, "results": 5600000}`))
	}))
	defer server.Close()

	log := newTestLogger()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	client := NewClient(httputil.New(cfg, log), server.URL, "test-key", "jp", log)
	provider := NewProvider(client)

	metric, err := provider.Fetch(context.Background(), "格安SIM")
	require.NoError(t, err)

	assert.Equal(t, contracts.AxisCompetition, metric.Axis)
	assert.Equal(t, contracts.MetricSource("ubersuggest"), metric.Source)
	assert.InDelta(t, 71.2, metric.Difficulty, 0.001)
	assert.Equal(t, 5600000, metric.CompetitorCount)
}

func TestProviderFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	log := newTestLogger()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	client := NewClient(httputil.New(cfg, log), server.URL, "bad-key", "jp", log)

	_, err := NewProvider(client).Fetch(context.Background(), "格安SIM")
	assert.Error(t, err)
}
