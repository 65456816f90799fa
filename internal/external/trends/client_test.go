package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// trendsServer mimics the two-step widget API including the
// anti-hijacking prefixes Google prepends.
func trendsServer(t *testing.T, values []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/explore"):
			w.Write([]byte(")]}'\n" + `{"widgets": [
				{"id": "TIMESERIES", "token": "tok-123", "request": {"time": "today 12-m"}},
				{"id": "RELATED_TOPICS", "token": "tok-456", "request": {}}
			]}`))
		case strings.HasPrefix(r.URL.Path, "/widgetdata/multiline"):
			assert.Equal(t, "tok-123", r.URL.Query().Get("token"))
			w.Write([]byte(")]}',\n" + `{"default": {"timelineData": [` + strings.Join(values, ",") + `]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetchInterestRising(t *testing.T) {
	server := trendsServer(t, []string{
		`{"value": [20]}`, `{"value": [30]}`, `{"value": [60]}`, `{"value": [70]}`,
	})
	defer server.Close()

	log := newTestLogger()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	client := NewClient(httputil.New(cfg, log), server.URL, "JP", log)

	result, err := client.FetchInterest(context.Background(), "キャンプ")
	require.NoError(t, err)

	assert.InDelta(t, 45.0, result.AverageInterest, 0.001)
	assert.Equal(t, contracts.TrendRising, result.Trend)
}

func TestFetchInterestFalling(t *testing.T) {
	server := trendsServer(t, []string{
		`{"value": [80]}`, `{"value": [70]}`, `{"value": [30]}`, `{"value": [20]}`,
	})
	defer server.Close()

	log := newTestLogger()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	client := NewClient(httputil.New(cfg, log), server.URL, "JP", log)

	result, err := client.FetchInterest(context.Background(), "タピオカ")
	require.NoError(t, err)

	assert.Equal(t, contracts.TrendFalling, result.Trend)
}

func TestFetchInterestEmptySeries(t *testing.T) {
	server := trendsServer(t, nil)
	defer server.Close()

	log := newTestLogger()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	client := NewClient(httputil.New(cfg, log), server.URL, "JP", log)

	result, err := client.FetchInterest(context.Background(), "何もない")
	require.NoError(t, err)

	assert.Zero(t, result.AverageInterest)
	assert.Equal(t, contracts.TrendUnknown, result.Trend)
}

func TestProviderMergesSyntheticVolume(t *testing.T) {
	server := trendsServer(t, []string{`{"value": [10]}`, `{"value": [50]}`})
	defer server.Close()

	log := newTestLogger()
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	client := NewClient(httputil.New(cfg, log), server.URL, "JP", log)

	generator := synthetic.NewGenerator(synthetic.DefaultMarkers())
	provider := NewProvider(client, generator)

	metric, err := provider.Fetch(context.Background(), "キャンプ")
	require.NoError(t, err)

	assert.Equal(t, contracts.MetricSource("google_trends"), metric.Source)
	assert.InDelta(t, 30.0, metric.Interest, 0.001)
	assert.Equal(t, contracts.TrendRising, metric.Trend)

	// Volume comes from the deterministic generator
	want := generator.Generate("キャンプ", contracts.AxisDemand)
	assert.Equal(t, want.MonthlyVolume, metric.MonthlyVolume)
	assert.Positive(t, metric.MonthlyVolume)
}
