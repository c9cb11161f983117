package retrieval

import (
	"context"
	"log/slog"

	pkgerrors "github.com/pkg/errors"

	"github.com/shotstash/shotstash/plugin/embedder"
	"github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/server/pagination"
	"github.com/shotstash/shotstash/store"
)

const (
	// DefaultTopK is the vector result cap applied when the caller does
	// not specify one.
	DefaultTopK = 200
	// MaxTopK caps the vector result size.
	MaxTopK = 1000
)

// ShotFinder is the slice of the store the engine needs.
type ShotFinder interface {
	ListShotIDs(ctx context.Context, find *store.FindShot) ([]int64, error)
	CountShots(ctx context.Context, find *store.FindShot) (int, error)
	NearestShotIDs(ctx context.Context, queryVector []float32, candidateIDs []int64, limit int) ([]int64, error)
}

// Engine runs hybrid retrieval: it embeds the query text, narrows the
// candidate set by tag constraints, and lets vector distance decide the
// final order. The order it returns is authoritative; pagination slices
// it without re-sorting.
type Engine struct {
	store    ShotFinder
	embedder embedder.Embedder
}

// NewEngine creates a retrieval engine.
func NewEngine(store ShotFinder, embedder embedder.Embedder) *Engine {
	return &Engine{store: store, embedder: embedder}
}

// SearchOptions are the parameters of one retrieval request.
type SearchOptions struct {
	// Query is the free-text query. Empty means filter-only retrieval.
	Query string
	// TopK caps the vector result size before pagination. With TopK below
	// a page's upper bound, later pages intentionally come back short.
	TopK int
	// Filter is the tag constraint; its zero value means unconstrained.
	Filter TagFilter
	// Hybrid narrows vector search to the tag-filtered candidate set.
	// With Hybrid false the tag filter is ignored whenever Query is set.
	Hybrid bool
	// Page selects the slice of the ordered result to return.
	Page pagination.Params
}

func (o *SearchOptions) validate() error {
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.TopK < 1 || o.TopK > MaxTopK {
		return errors.Validation("top_k must be in [1,%d], got %d", MaxTopK, o.TopK)
	}
	return o.Filter.Validate()
}

// Result is one page of ordered shot ids plus the pre-slice total.
type Result struct {
	// IDs is the requested page of the ordered id list.
	IDs []int64
	// Total is the length of the full ordered list before slicing (or the
	// full relational match count on the filter-only path).
	Total int
}

// Search resolves one retrieval request. With no query text it is a
// relational listing; with query text it is vector search, optionally
// restricted to the tag-filtered candidate set. An unavailable embedder
// degrades to an empty result rather than an error.
func (e *Engine) Search(ctx context.Context, opts *SearchOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.Query == "" {
		return e.filterOnly(ctx, opts)
	}

	queryVector, err := e.embedder.Embed(ctx, opts.Query)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to embed query")
	}
	if queryVector == nil {
		// Degraded mode: no embedder configured.
		slog.DebugContext(ctx, "embedder yielded no vector, returning empty result")
		return &Result{IDs: []int64{}, Total: 0}, nil
	}

	var candidateIDs []int64
	if find := opts.Filter.find(); opts.Hybrid && find.HasTagConstraint() {
		// Resolve the full candidate set, unpaginated: losing matches to a
		// page cap here would silently drop relevant shots from the vector
		// search.
		candidateIDs, err = e.store.ListShotIDs(ctx, find)
		if err != nil {
			return nil, err
		}
		if len(candidateIDs) == 0 {
			return &Result{IDs: []int64{}, Total: 0}, nil
		}
	}

	// Vector-distance order is authoritative from here on. The tag filter
	// only narrowed the candidate set; it must not reorder.
	ordered, err := e.store.NearestShotIDs(ctx, queryVector, candidateIDs, opts.TopK)
	if err != nil {
		return nil, err
	}

	return &Result{
		IDs:   pagination.Slice(ordered, opts.Page),
		Total: len(ordered),
	}, nil
}

// filterOnly lists shots relationally: similarity-ranked when a fuzzy tag
// query is present, id-ordered otherwise.
func (e *Engine) filterOnly(ctx context.Context, opts *SearchOptions) (*Result, error) {
	find := opts.Filter.find()

	total, err := e.store.CountShots(ctx, find)
	if err != nil {
		return nil, err
	}

	limit := opts.Page.PageSize
	offset := opts.Page.Offset()
	find.Limit = &limit
	find.Offset = &offset

	ids, err := e.store.ListShotIDs(ctx, find)
	if err != nil {
		return nil, err
	}

	return &Result{IDs: ids, Total: total}, nil
}
