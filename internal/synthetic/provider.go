package synthetic

import (
	"context"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
)

// Provider adapts the generator to the SignalProvider capability so an
// axis with no external source configured runs against synthetic data
// through the same code path as a live one.
type Provider struct {
	generator *Generator
	axis      contracts.Axis
}

// NewProvider creates a synthetic provider for one axis.
func NewProvider(generator *Generator, axis contracts.Axis) *Provider {
	return &Provider{
		generator: generator,
		axis:      axis,
	}
}

// Fetch returns the synthetic metric for the keyword. It never fails.
func (p *Provider) Fetch(_ context.Context, keyword string) (contracts.KeywordMetric, error) {
	return p.generator.Generate(keyword, p.axis), nil
}

// Name identifies the data source.
func (p *Provider) Name() string {
	return string(contracts.SourceSynthetic)
}
