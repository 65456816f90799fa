package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// App-level recent search limit is 450 requests per 15 minutes.
const requestsPerSecond = 0.5

// Client handles communication with the Twitter/X API v2.
type Client struct {
	httpClient  *http.Client
	logger      *logger.Logger
	baseURL     string
	bearerToken string
	limiter     *rate.Limiter
	shared      *redis.RateLimiter
	sharedCfg   *redis.RateLimitConfig
}

// NewClient creates a new Twitter client. The v2 API needs the bearer
// token on every request, so this client owns its http.Client rather
// than going through the shared wrapper.
func NewClient(baseURL, bearerToken string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.twitter.com/2"
	}
	return &Client{
		httpClient:  &http.Client{},
		logger:      log.WithField("source", "twitter"),
		baseURL:     baseURL,
		bearerToken: bearerToken,
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// WithSharedLimit layers a cross-process sliding window on top of the
// in-process limiter so several replicas share the app-level quota.
func (c *Client) WithSharedLimit(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.shared = limiter
	c.sharedCfg = &cfg
	return c
}

// Tweet is one recent-search result.
type Tweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		LikeCount    int `json:"like_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
}

type searchResponse struct {
	Data []Tweet `json:"data"`
	Meta struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}

// SearchRecent runs a recent search for Japanese original tweets
// mentioning the keyword.
func (c *Client) SearchRecent(ctx context.Context, keyword string) ([]Tweet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if c.shared != nil && c.sharedCfg != nil {
		if err := c.shared.Wait(ctx, *c.sharedCfg); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s lang:ja -is:retweet", keyword))
	params.Set("max_results", "100")
	params.Set("tweet.fields", "public_metrics")

	fullURL := fmt.Sprintf("%s/tweets/search/recent?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return search.Data, nil
}

// Provider adapts the client to the social-axis SignalProvider.
type Provider struct {
	client *Client
}

// NewProvider creates a social provider backed by Twitter/X.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Fetch returns the social metric for one keyword: tweet volume,
// average engagements per tweet, and lexicon sentiment over the texts.
func (p *Provider) Fetch(ctx context.Context, keyword string) (contracts.KeywordMetric, error) {
	tweets, err := p.client.SearchRecent(ctx, keyword)
	if err != nil {
		return contracts.KeywordMetric{}, err
	}

	metric := contracts.KeywordMetric{
		Keyword:    keyword,
		Axis:       contracts.AxisSocial,
		Source:     contracts.MetricSource(p.Name()),
		TweetCount: len(tweets),
		Sentiment:  contracts.SentimentNeutral,
	}

	if len(tweets) == 0 {
		return metric, nil
	}

	totalEngagements := 0
	texts := make([]string, len(tweets))
	for i, tweet := range tweets {
		pm := tweet.PublicMetrics
		totalEngagements += pm.RetweetCount + pm.ReplyCount + pm.LikeCount + pm.QuoteCount
		texts[i] = tweet.Text
	}

	metric.EngagementRate = float64(totalEngagements) / float64(len(tweets))
	metric.Sentiment = classifySentiment(texts)

	return metric, nil
}

// Name identifies the data source.
func (p *Provider) Name() string {
	return "twitter"
}
