package trends

import (
	"context"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
)

// Provider adapts the trends client to the demand-axis SignalProvider.
// Google Trends covers interest and direction only; monthly search
// volume would need a Google Ads account, so the deterministic generator
// supplies it, exactly as the synthetic path does.
type Provider struct {
	client    *Client
	generator *synthetic.Generator
}

// NewProvider creates a demand provider backed by Google Trends.
func NewProvider(client *Client, generator *synthetic.Generator) *Provider {
	return &Provider{
		client:    client,
		generator: generator,
	}
}

// Fetch returns the demand metric for one keyword.
func (p *Provider) Fetch(ctx context.Context, keyword string) (contracts.KeywordMetric, error) {
	interest, err := p.client.FetchInterest(ctx, keyword)
	if err != nil {
		return contracts.KeywordMetric{}, err
	}

	metric := p.generator.Generate(keyword, contracts.AxisDemand)
	metric.Source = contracts.MetricSource(p.Name())
	metric.Interest = interest.AverageInterest
	metric.Trend = interest.Trend

	return metric, nil
}

// Name identifies the data source.
func (p *Provider) Name() string {
	return "google_trends"
}
