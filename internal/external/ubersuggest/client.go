package ubersuggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Standard plan allows 20 requests per minute.
const requestsPerMinute = 20

// Client handles communication with the Ubersuggest API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	country    string
	limiter    *rate.Limiter
}

// NewClient creates a new Ubersuggest client.
func NewClient(httpClient *httputil.Client, baseURL, apiKey, country string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.ubersuggest.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", "ubersuggest"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		country:    country,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// keywordResponse is the subset of the keyword_data payload we consume.
type keywordResponse struct {
	Keyword       string  `json:"keyword"`
	SEODifficulty float64 `json:"seo_difficulty"`
	SearchVolume  int     `json:"search_volume"`
	Results       int     `json:"results"`
}

// FetchKeyword retrieves difficulty data for a keyword.
func (c *Client) FetchKeyword(ctx context.Context, keyword string) (keywordResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return keywordResponse{}, err
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("keyword", keyword)
	params.Set("country", c.country)

	fullURL := fmt.Sprintf("%s/keyword_data?%s", c.baseURL, params.Encode())
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return keywordResponse{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return keywordResponse{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data keywordResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return keywordResponse{}, fmt.Errorf("failed to parse keyword data: %w", err)
	}

	return data, nil
}

// Provider adapts the client to the competition-axis SignalProvider.
type Provider struct {
	client *Client
}

// NewProvider creates a competition provider backed by Ubersuggest.
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
		Difficulty:      data.SEODifficulty,
		CompetitorCount: data.Results,
	}, nil
}

// Name identifies the data source.
func (p *Provider) Name() string {
	return "ubersuggest"
}
