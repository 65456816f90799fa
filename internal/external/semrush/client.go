package semrush

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

const requestsPerSecond = 10

// Client handles communication with the Semrush analytics API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	database   string
	limiter    *rate.Limiter
}

// NewClient creates a new Semrush client.
func NewClient(httpClient *httputil.Client, baseURL, apiKey, database string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.semrush.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", "semrush"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		database:   database,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// KeywordData is the parsed phrase report for one keyword.
type KeywordData struct {
	Keyword    string
	Difficulty float64 // 0-100
	Volume     int
	Results    int // organic results competing for the phrase
}

// FetchKeyword retrieves the phrase_this report for a keyword. Semrush
// answers with a semicolon-separated header line plus one data line.
func (c *Client) FetchKeyword(ctx context.Context, keyword string) (KeywordData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return KeywordData{}, err
	}

	params := url.Values{}
	params.Set("type", "phrase_this")
	params.Set("key", c.apiKey)
	params.Set("phrase", keyword)
	params.Set("database", c.database)
	params.Set("export_columns", "Ph,Kd,Nq,Nr")

	fullURL := fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return KeywordData{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return KeywordData{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return KeywordData{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return parsePhraseReport(string(body))
}

// parsePhraseReport parses the two-line CSV-with-semicolons report.
func parsePhraseReport(body string) (KeywordData, error) {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "ERROR") {
		return KeywordData{}, fmt.Errorf("semrush error response: %s", body)
	}

	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return KeywordData{}, fmt.Errorf("malformed phrase report: %q", body)
	}

	header := strings.Split(strings.TrimSpace(lines[0]), ";")
	fields := strings.Split(strings.TrimSpace(lines[1]), ";")
	if len(header) != len(fields) {
		return KeywordData{}, fmt.Errorf("phrase report column mismatch: %d headers, %d fields", len(header), len(fields))
	}

	data := KeywordData{}
	for i, name := range header {
		value := strings.TrimSpace(fields[i])
		switch strings.TrimSpace(name) {
		case "Keyword":
			data.Keyword = value
		case "Keyword Difficulty Index", "Keyword Difficulty":
			data.Difficulty, _ = strconv.ParseFloat(value, 64)
		case "Search Volume":
			data.Volume, _ = strconv.Atoi(value)
		case "Number of Results":
			data.Results, _ = strconv.Atoi(value)
		}
	}

	return data, nil
}

// Provider adapts the client to the competition-axis SignalProvider.
type Provider struct {
	client *Client
}

// NewProvider creates a competition provider backed by Semrush.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Fetch returns the competition metric for one keyword.
func (p *Provider) Fetch(ctx context.Context, keyword string) (contracts.KeywordMetric, error) {
	data, err := p.client.FetchKeyword(ctx, keyword)
	if err != nil {
		return contracts.KeywordMetric{}, err
	}

	return contracts.KeywordMetric{
		Keyword:         keyword,
		Axis:            contracts.AxisCompetition,
		Source:          contracts.MetricSource(p.Name()),
		Difficulty:      data.Difficulty,
		CompetitorCount: data.Results,
	}, nil
}

// Name identifies the data source.
func (p *Provider) Name() string {
	return "semrush"
}
