package contracts

import "context"

// SignalProvider fetches the raw metric for one keyword on one axis.
// Implementations must be safe for concurrent use: multiple keyword
// fetches may be in flight at once.
type SignalProvider interface {
	// Fetch returns the metric for a keyword or an error. Errors are
	// never fatal to a run; the caller substitutes a synthetic metric
	// for the failed keyword only.
	Fetch(ctx context.Context, keyword string) (KeywordMetric, error)

	// Name identifies the originating data source for observability.
	Name() string
}

// Suggester produces the raw genre payload the normalizer consumes.
// The payload is deliberately untyped: the upstream collaborator may
// return a list, a keyed mapping, or a JSON string.
type Suggester interface {
	Suggest(ctx context.Context, count int) (any, error)
}

// RunStore persists run results for the presentation layer.
type RunStore interface {
	SaveRun(ctx context.Context, result *RunResult) (int64, error)
	GetRun(ctx context.Context, id int64) (*RunResult, error)
	LatestRun(ctx context.Context) (int64, *RunResult, error)
}
