package pagination

import (
	"github.com/shotstash/shotstash/server/internal/errors"
)

const (
	// DefaultPageSize is used when the caller does not specify one.
	DefaultPageSize = 24
	// MaxPageSize caps the page size.
	MaxPageSize = 60
)

// Params are validated paging parameters.
type Params struct {
	Page     int
	PageSize int
}

// NewParams validates page and pageSize, applying the default page size
// when pageSize is zero.
func NewParams(page, pageSize int) (Params, error) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return Params{}, errors.Validation("page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return Params{}, errors.Validation("page_size must be in [1,%d], got %d", MaxPageSize, pageSize)
	}
	return Params{Page: page, PageSize: pageSize}, nil
}

// Offset returns the relational query offset for the params.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of results with totals.
type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
}

// NewPage assembles a page envelope around already-sliced items.
func NewPage[T any](items []T, total int, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:     items,
		Total:     total,
		Page:      params.Page,
		PageSize:  params.PageSize,
		PageCount: PageCount(total, params.PageSize),
	}
}

// PageCount returns ceil(total/pageSize), 0 when total is 0.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Slice cuts one page out of an ordered list without disturbing its order.
// Pages past the end of the list come back empty.
func Slice[T any](ordered []T, params Params) []T {
	start := params.Offset()
	if start >= len(ordered) {
		return []T{}
	}
	end := start + params.PageSize
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[start:end]
}
