package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Google Trends throttles aggressively; stay conservative.
const requestsPerSecond = 1

// Client handles communication with the Google Trends widget API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	geo        string
	limiter    *rate.Limiter
}

// NewClient creates a new Google Trends client.
func NewClient(httpClient *httputil.Client, baseURL, geo string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://trends.google.com/trends/api"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", "google_trends"),
		baseURL:    baseURL,
		geo:        geo,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// InterestResult is the parsed interest-over-time series for one keyword.
type InterestResult struct {
	AverageInterest float64
	Trend           contracts.Trend
}

// exploreResponse is the subset of the explore payload we need: the
// widget token for the TIMESERIES request.
type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Value []float64 `json:"value"`
		} `json:"timelineData"`
	} `json:"default"`
}

// FetchInterest retrieves the 12-month interest series for a keyword and
// reduces it to an average plus a rising/falling direction. The trend is
// judged by comparing the first-half mean against the second-half mean.
func (c *Client) FetchInterest(ctx context.Context, keyword string) (InterestResult, error) {
	token, request, err := c.exploreToken(ctx, keyword)
	if err != nil {
		return InterestResult{}, err
	}

	values, err := c.fetchSeries(ctx, token, request)
	if err != nil {
		return InterestResult{}, err
	}

	if len(values) == 0 {
		return InterestResult{Trend: contracts.TrendUnknown}, nil
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	result := InterestResult{
		AverageInterest: sum / float64(len(values)),
		Trend:           contracts.TrendUnknown,
	}

	if len(values) > 1 {
		half := len(values) / 2
		firstHalf := meanOf(values[:half])
		secondHalf := meanOf(values[half:])
		if secondHalf > firstHalf {
			result.Trend = contracts.TrendRising
		} else {
			result.Trend = contracts.TrendFalling
		}
	}

	return result, nil
}

// exploreToken performs the explore request that issues widget tokens.
func (c *Client) exploreToken(ctx context.Context, keyword string) (string, json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", nil, err
	}

	req := map[string]any{
		"comparisonItem": []map[string]any{
			{"keyword": keyword, "geo": c.geo, "time": "today 12-m"},
		},
		"category": 0,
		"property": "",
	}
	reqJSON, _ := json.Marshal(req)

	params := url.Values{}
	params.Set("hl", "ja")
	params.Set("tz", "-540")
	params.Set("req", string(reqJSON))

	body, err := c.fetchJSON(ctx, fmt.Sprintf("%s/explore?%s", c.baseURL, params.Encode()))
	if err != nil {
		return "", nil, fmt.Errorf("explore request failed: %w", err)
	}

	var explore exploreResponse
	if err := json.Unmarshal(body, &explore); err != nil {
		return "", nil, fmt.Errorf("failed to parse explore response: %w", err)
	}

	for _, widget := range explore.Widgets {
		if widget.ID == "TIMESERIES" {
			return widget.Token, widget.Request, nil
		}
	}

	return "", nil, fmt.Errorf("no TIMESERIES widget in explore response")
}

// fetchSeries retrieves the interest-over-time values for a widget token.
func (c *Client) fetchSeries(ctx context.Context, token string, request json.RawMessage) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("hl", "ja")
	params.Set("tz", "-540")
	params.Set("token", token)
	params.Set("req", string(request))

	body, err := c.fetchJSON(ctx, fmt.Sprintf("%s/widgetdata/multiline?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("multiline request failed: %w", err)
	}

	var multiline multilineResponse
	if err := json.Unmarshal(body, &multiline); err != nil {
		return nil, fmt.Errorf("failed to parse multiline response: %w", err)
	}

	values := make([]float64, 0, len(multiline.Default.TimelineData))
	for _, point := range multiline.Default.TimelineData {
		if len(point.Value) > 0 {
			values = append(values, point.Value[0])
		}
	}

	return values, nil
}

// fetchJSON performs a GET and strips the anti-JSON-hijacking prefix
// Google prepends to every trends response.
func (c *Client) fetchJSON(ctx context.Context, fullURL string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	text := string(body)
	if idx := strings.IndexAny(text, "{["); idx > 0 {
		text = text[idx:]
	}

	return []byte(text), nil
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
