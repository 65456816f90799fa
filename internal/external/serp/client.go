package serp

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Scraping a public results page; stay polite.
const requestsPerSecond = 0.5

// digitsRe extracts the result count from strings like "約 1,230,000 件
// の検索結果" or "1,230,000 results".
var digitsRe = regexp.MustCompile(`[\d,]{2,}`)

// Client estimates keyword competition by scraping a search results
// page and reading the total result count. A keyless fallback for runs
// with no Semrush or Ubersuggest credentials.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new SERP scraping client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", "serp"),
		baseURL:    "https://www.bing.com",
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// CountResults scrapes the result count for an exact-title query, a
// proxy for how many pages actively target the keyword.
func (c *Client) CountResults(ctx context.Context, keyword string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("intitle:%s", keyword))

	fullURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse results page: %w", err)
	}

	countText := doc.Find("span.sb_count").First().Text()
	if countText == "" {
		return 0, fmt.Errorf("result count element not found")
	}

	return parseCount(countText)
}

func parseCount(text string) (int, error) {
	match := digitsRe.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no result count in %q", text)
	}

	count, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("unparsable result count %q: %w", match, err)
	}

	return count, nil
}

// Provider adapts the scraper to the competition-axis SignalProvider.
// Difficulty is derived from the result count on a log scale: ~100k
// competing pages is already a contested keyword.
type Provider struct {
	client *Client
}

// NewProvider creates a competition provider backed by SERP scraping.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Fetch returns the competition metric for one keyword.
func (p *Provider) Fetch(ctx context.Context, keyword string) (contracts.KeywordMetric, error) {
	count, err := p.client.CountResults(ctx, keyword)
	if err != nil {
		return contracts.KeywordMetric{}, err
	}

	return contracts.KeywordMetric{
		Keyword:         keyword,
		Axis:            contracts.AxisCompetition,
		Source:          contracts.MetricSource(p.Name()),
		Difficulty:      difficultyFromCount(count),
		CompetitorCount: count,
	}, nil
}

// Name identifies the data source.
func (p *Provider) Name() string {
	return "serp"
}

// difficultyFromCount maps a result count onto 0-100: 10^5 results maps
// to 100, on a log10 scale.
func difficultyFromCount(count int) float64 {
	if count <= 1 {
		return 0
	}
	difficulty := math.Log10(float64(count)) * 20
	return math.Max(0, math.Min(100, difficulty))
}
