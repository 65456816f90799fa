package normalize

import "encoding/json"

// PayloadKind classifies the raw genre payload shape at the boundary.
// The upstream suggester is duck-typed; classifying once up front keeps
// every normalization branch testable in isolation.
type PayloadKind int

const (
	KindSequence PayloadKind = iota
	KindMapping
	KindText
	KindScalar
	KindUnsupported
)

func (k PayloadKind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindText:
		return "text"
	case KindScalar:
		return "scalar"
	default:
		return "unsupported"
	}
}

// Classify determines the payload kind of a raw value.
func Classify(raw any) PayloadKind {
	switch raw.(type) {
	case nil:
		return KindUnsupported
	case []any, []map[string]any, []string:
		return KindSequence
	case map[string]any:
		return KindMapping
	case string:
		return KindText
	case json.Number, float64, float32, int, int32, int64, uint, uint32, uint64, bool:
		return KindScalar
	default:
		return KindUnsupported
	}
}
