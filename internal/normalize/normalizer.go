package normalize

import (
	"encoding/json"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Field aliases accepted on a mapping entry. The suggester speaks
// Japanese; canonical Topic JSON uses the English names, and feeding a
// normalized sequence back in must be a no-op.
var (
	nameFields    = []string{"ジャンル名", "name"}
	keywordFields = []string{"関連するキーワード例", "keywords"}
)

// Alias keys searched on a keyed mapping for the actual genre list.
var sequenceAliases = []string{"genres", "ジャンル", "results", "data"}

// Normalizer canonicalizes a raw genre payload into an ordered Topic
// sequence. It never fails: unrecoverable shapes yield an empty sequence.
type Normalizer struct {
	logger *logger.Logger
}

// New creates a normalizer.
func New(log *logger.Logger) *Normalizer {
	return &Normalizer{
		logger: log.WithField("module", "normalize"),
	}
}

// Normalize coerces any payload shape the upstream suggester may emit
// into validated Topics. Output order matches input order; duplicate
// names are preserved (downstream maps resolve last-write-wins).
func (n *Normalizer) Normalize(raw any) []contracts.Topic {
	// A canonical sequence passes straight through (minus invalid
	// entries), which makes Normalize idempotent.
	if topics, ok := raw.([]contracts.Topic); ok {
		return filterValid(topics)
	}

	entries, ok := n.resolveSequence(raw)
	if !ok {
		return []contracts.Topic{}
	}

	topics := make([]contracts.Topic, 0, len(entries))
	for _, entry := range entries {
		topic, ok := n.coerceEntry(entry)
		if !ok {
			continue
		}
		topics = append(topics, topic)
	}

	return filterValid(topics)
}

// resolveSequence unwraps the payload down to a list of entries,
// following the classification order: sequence as-is, text via JSON,
// mapping via alias keys or as a single entry, scalar rejected.
func (n *Normalizer) resolveSequence(raw any) ([]any, bool) {
	switch Classify(raw) {
	case KindSequence:
		return toAnySlice(raw), true

	case KindText:
		var parsed any
		if err := json.Unmarshal([]byte(raw.(string)), &parsed); err != nil {
			n.logger.WithError(err).Warn("Genre payload is not valid JSON")
			return nil, false
		}
		// A JSON string can decode to any shape; classify again, but a
		// nested string is a scalar at this stage, not more JSON.
		if Classify(parsed) == KindText {
			n.logger.Warn("Genre payload decoded to a bare string")
			return nil, false
		}
		return n.resolveSequence(parsed)

	case KindMapping:
		mapping := raw.(map[string]any)
		for _, alias := range sequenceAliases {
			if value, exists := mapping[alias]; exists {
				if Classify(value) == KindSequence {
					return toAnySlice(value), true
				}
			}
		}
		// No alias key: treat the whole mapping as a single entry
		return []any{mapping}, true

	case KindScalar:
		n.logger.WithField("kind", "scalar").Warn("Unsupported genre payload shape")
		return nil, false

	default:
		n.logger.WithField("kind", Classify(raw).String()).Warn("Unsupported genre payload shape")
		return nil, false
	}
}

// coerceEntry converts one sequence entry into a Topic.
func (n *Normalizer) coerceEntry(entry any) (contracts.Topic, bool) {
	switch e := entry.(type) {
	case contracts.Topic:
		return e, true

	case map[string]any:
		topic := contracts.Topic{
			Name:     stringField(e, nameFields),
			Keywords: keywordField(e, keywordFields),
		}
		return topic, true

	case string:
		// A bare string names a topic; seed the keyword list with the
		// name itself so the topic stays analyzable.
		return contracts.Topic{Name: e, Keywords: []string{e}}, true

	default:
		n.logger.WithField("entry_type", Classify(entry).String()).Warn("Skipping malformed genre entry")
		return contracts.Topic{}, false
	}
}

func filterValid(topics []contracts.Topic) []contracts.Topic {
	valid := make([]contracts.Topic, 0, len(topics))
	for _, t := range topics {
		if t.Valid() {
			valid = append(valid, t)
		}
	}
	return valid
}

func toAnySlice(raw any) []any {
	switch s := raw.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out
	case []map[string]any:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out
	default:
		return nil
	}
}

func stringField(mapping map[string]any, fields []string) string {
	for _, field := range fields {
		if value, ok := mapping[field].(string); ok {
			return value
		}
	}
	return ""
}

func keywordField(mapping map[string]any, fields []string) []string {
	for _, field := range fields {
		value, exists := mapping[field]
		if !exists {
			continue
		}

		switch v := value.(type) {
		case []string:
			return v
		case []any:
			keywords := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					keywords = append(keywords, s)
				}
			}
			return keywords
		}
	}
	return []string{}
}
