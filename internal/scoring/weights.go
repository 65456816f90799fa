package scoring

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights collects every empirical constant in the scoring pipeline.
// The values carry no documented derivation; they are preserved as
// overridable configuration rather than re-derived.
type Weights struct {
	Composite CompositeWeights `yaml:"composite" json:"composite"`
	Demand    DemandWeights    `yaml:"demand" json:"demand"`
	Social    SocialWeights    `yaml:"social" json:"social"`
}

// CompositeWeights defines how axis scores combine into the total.
// The three-axis set applies when the social axis ran; the two-axis set
// applies when it did not. Each set must sum to 1: weights redistribute
// over present axes, they are never zeroed.
type CompositeWeights struct {
	Demand          float64 `yaml:"demand" json:"demand"`
	CompetitionEase float64 `yaml:"competition_ease" json:"competition_ease"`
	Social          float64 `yaml:"social" json:"social"`

	DemandTwoAxis      float64 `yaml:"demand_two_axis" json:"demand_two_axis"`
	CompetitionTwoAxis float64 `yaml:"competition_two_axis" json:"competition_two_axis"`
}

// DemandWeights defines the demand axis score composition.
type DemandWeights struct {
	Interest float64 `yaml:"interest" json:"interest"`
	Volume   float64 `yaml:"volume" json:"volume"`
	Rising   float64 `yaml:"rising" json:"rising"`
}

// SocialWeights defines the social axis score composition.
type SocialWeights struct {
	Tweets     float64 `yaml:"tweets" json:"tweets"`
	Engagement float64 `yaml:"engagement" json:"engagement"`
	Sentiment  float64 `yaml:"sentiment" json:"sentiment"`
}

// DefaultWeights returns the reference constants.
func DefaultWeights() Weights {
	return Weights{
		Composite: CompositeWeights{
			Demand:          0.4,
			CompetitionEase: 0.4,
			Social:          0.2,

			DemandTwoAxis:      0.5,
			CompetitionTwoAxis: 0.5,
		},
		Demand: DemandWeights{
			Interest: 0.3,
			Volume:   0.5,
			Rising:   0.2,
		},
		Social: SocialWeights{
			Tweets:     0.3,
			Engagement: 0.5,
			Sentiment:  0.2,
		},
	}
}

// LoadWeights reads a weights YAML file. Unknown fields fail fast so a
// typo cannot silently fall back to a default.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("read weights file: %w", err)
	}

	var w Weights
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return Weights{}, fmt.Errorf("parse weights file: %w", err)
	}

	if err := w.Validate(); err != nil {
		return Weights{}, err
	}

	return w, nil
}

// Validate checks every weight set sums to 1.0 (within float tolerance).
func (w Weights) Validate() error {
	checks := []struct {
		name string
		sum  float64
	}{
		{"composite three-axis", w.Composite.Demand + w.Composite.CompetitionEase + w.Composite.Social},
		{"composite two-axis", w.Composite.DemandTwoAxis + w.Composite.CompetitionTwoAxis},
		{"demand", w.Demand.Interest + w.Demand.Volume + w.Demand.Rising},
		{"social", w.Social.Tweets + w.Social.Engagement + w.Social.Sentiment},
	}

	for _, check := range checks {
		// Allow small floating point error
		if check.sum < 0.99 || check.sum > 1.01 {
			return fmt.Errorf("%s weights must sum to 1.0, got %.4f", check.name, check.sum)
		}
	}

	return nil
}
