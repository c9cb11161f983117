package retrieval

import (
	"github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/store"
)

// DefaultThreshold is the trigram similarity threshold applied when the
// caller does not specify one.
const DefaultThreshold = 0.2

// TagFilter is the tag constraint of a retrieval request. The zero value
// is the unconstrained sentinel: it means "no tag constraint", not "all
// shots enumerated".
type TagFilter struct {
	// Slugs admits shots carrying at least one tag whose slug is in the
	// set (OR across slugs).
	Slugs []string
	// Query admits shots carrying at least one tag whose name matches the
	// query with trigram similarity >= Threshold. Matches rank by the best
	// tag's similarity, descending.
	Query string
	// Threshold is the trigram similarity cutoff in [0,1].
	Threshold float64
}

// Validate rejects thresholds outside [0,1].
func (f TagFilter) Validate() error {
	if f.Threshold < 0 || f.Threshold > 1 {
		return errors.Validation("threshold must be in [0,1], got %g", f.Threshold)
	}
	return nil
}

// find translates the filter into a store query. Both constraint kinds
// apply when both are set (AND across the two, OR within each).
func (f TagFilter) find() *store.FindShot {
	find := &store.FindShot{
		TagSlugs:  f.Slugs,
		Threshold: f.Threshold,
	}
	if f.Query != "" {
		query := f.Query
		find.TagQuery = &query
	}
	return find
}
