package contracts

// Topic is a candidate subject area to be scored, with its representative
// keywords. Topics are created by the normalizer and immutable afterwards;
// they live for exactly one analysis run.
type Topic struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Valid reports whether the topic can be analyzed. Topics with an empty
// name or no keywords are dropped before analysis.
func (t Topic) Valid() bool {
	return t.Name != "" && len(t.Keywords) > 0
}
