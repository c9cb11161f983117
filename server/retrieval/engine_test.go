package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/server/pagination"
	"github.com/shotstash/shotstash/store"
)

// MockShotFinder is a mock for ShotFinder.
type MockShotFinder struct {
	mock.Mock
}

func (m *MockShotFinder) ListShotIDs(ctx context.Context, find *store.FindShot) ([]int64, error) {
	args := m.Called(ctx, find)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockShotFinder) CountShots(ctx context.Context, find *store.FindShot) (int, error) {
	args := m.Called(ctx, find)
	return args.Int(0), args.Error(1)
}

func (m *MockShotFinder) NearestShotIDs(ctx context.Context, queryVector []float32, candidateIDs []int64, limit int) ([]int64, error) {
	args := m.Called(ctx, queryVector, candidateIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// stubEmbedder returns a canned vector (nil means "no embedder").
type stubEmbedder struct {
	vector []float32
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return s.vector, nil
}

func (s *stubEmbedder) Dimensions() int {
	return 768
}

func mustParams(t *testing.T, page, pageSize int) pagination.Params {
	t.Helper()
	params, err := pagination.NewParams(page, pageSize)
	require.NoError(t, err)
	return params
}

func TestSearchValidation(t *testing.T) {
	engine := NewEngine(&MockShotFinder{}, &stubEmbedder{})

	tests := []struct {
		name string
		opts SearchOptions
	}{
		{"top_k too large", SearchOptions{TopK: 1001, Page: mustParams(t, 1, 24)}},
		{"top_k negative", SearchOptions{TopK: -1, Page: mustParams(t, 1, 24)}},
		{"threshold above one", SearchOptions{Filter: TagFilter{Query: "x", Threshold: 1.5}, Page: mustParams(t, 1, 24)}},
		{"threshold negative", SearchOptions{Filter: TagFilter{Threshold: -0.1}, Page: mustParams(t, 1, 24)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Search(context.Background(), &tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestSearchFilterOnly(t *testing.T) {
	finder := &MockShotFinder{}
	finder.On("CountShots", mock.Anything, mock.MatchedBy(func(find *store.FindShot) bool {
		return find.Limit == nil && len(find.TagSlugs) == 1
	})).Return(30, nil)
	finder.On("ListShotIDs", mock.Anything, mock.MatchedBy(func(find *store.FindShot) bool {
		return find.Limit != nil && *find.Limit == 24 && *find.Offset == 24
	})).Return([]int64{101, 102}, nil)

	engine := NewEngine(finder, &stubEmbedder{})
	result, err := engine.Search(context.Background(), &SearchOptions{
		Filter: TagFilter{Slugs: []string{"action"}, Threshold: DefaultThreshold},
		Hybrid: true,
		Page:   mustParams(t, 2, 24),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, result.Total)
	assert.Equal(t, []int64{101, 102}, result.IDs)
	finder.AssertExpectations(t)
}

func TestSearchDegradedWithoutEmbedder(t *testing.T) {
	finder := &MockShotFinder{}
	engine := NewEngine(finder, &stubEmbedder{vector: nil})

	result, err := engine.Search(context.Background(), &SearchOptions{
		Query: "explosion",
		Page:  mustParams(t, 1, 24),
	})
	require.NoError(t, err)
	assert.Empty(t, result.IDs)
	assert.Equal(t, 0, result.Total)
	finder.AssertNotCalled(t, "NearestShotIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchHybridFilterNarrowsVectorOrders(t *testing.T) {
	vector := []float32{0.1, 0.2}
	candidates := []int64{5, 9, 2, 7}
	// Vector-distance order deliberately disagrees with candidate order.
	ranked := []int64{7, 2, 9}

	finder := &MockShotFinder{}
	finder.On("ListShotIDs", mock.Anything, mock.MatchedBy(func(find *store.FindShot) bool {
		// Candidate resolution is unpaginated.
		return find.Limit == nil && find.TagQuery != nil && *find.TagQuery == "cine"
	})).Return(candidates, nil)
	finder.On("NearestShotIDs", mock.Anything, vector, candidates, 3).Return(ranked, nil)

	engine := NewEngine(finder, &stubEmbedder{vector: vector})
	result, err := engine.Search(context.Background(), &SearchOptions{
		Query:  "night city",
		TopK:   3,
		Filter: TagFilter{Query: "cine", Threshold: DefaultThreshold},
		Hybrid: true,
		Page:   mustParams(t, 1, 24),
	})
	require.NoError(t, err)
	// Vector order wins, never tag-similarity order.
	assert.Equal(t, ranked, result.IDs)
	assert.Equal(t, 3, result.Total)
	finder.AssertExpectations(t)
}

func TestSearchHybridEmptyCandidatesShortCircuits(t *testing.T) {
	finder := &MockShotFinder{}
	finder.On("ListShotIDs", mock.Anything, mock.Anything).Return([]int64{}, nil)

	engine := NewEngine(finder, &stubEmbedder{vector: []float32{0.5}})
	result, err := engine.Search(context.Background(), &SearchOptions{
		Query:  "anything",
		Filter: TagFilter{Slugs: []string{"missing"}},
		Hybrid: true,
		Page:   mustParams(t, 1, 24),
	})
	require.NoError(t, err)
	assert.Empty(t, result.IDs)
	assert.Equal(t, 0, result.Total)
	finder.AssertNotCalled(t, "NearestShotIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchHybridDisabledIgnoresFilter(t *testing.T) {
	vector := []float32{0.3}
	finder := &MockShotFinder{}
	finder.On("NearestShotIDs", mock.Anything, vector, []int64(nil), DefaultTopK).Return([]int64{4, 8}, nil)

	engine := NewEngine(finder, &stubEmbedder{vector: vector})
	result, err := engine.Search(context.Background(), &SearchOptions{
		Query:  "rain",
		Filter: TagFilter{Slugs: []string{"action"}},
		Hybrid: false,
		Page:   mustParams(t, 1, 24),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 8}, result.IDs)
	finder.AssertNotCalled(t, "ListShotIDs", mock.Anything, mock.Anything)
}

func TestSearchTopKTruncationAcrossPages(t *testing.T) {
	vector := []float32{0.9}
	finder := &MockShotFinder{}
	finder.On("NearestShotIDs", mock.Anything, vector, []int64(nil), 1).Return([]int64{42}, nil)

	engine := NewEngine(finder, &stubEmbedder{vector: vector})

	// Page 1 holds the single truncated result.
	result, err := engine.Search(context.Background(), &SearchOptions{
		Query: "closer",
		TopK:  1,
		Page:  mustParams(t, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, result.IDs)
	assert.Equal(t, 1, result.Total)

	// Page 2 is past the truncated list: empty items, same total.
	result, err = engine.Search(context.Background(), &SearchOptions{
		Query: "closer",
		TopK:  1,
		Page:  mustParams(t, 2, 1),
	})
	require.NoError(t, err)
	assert.Empty(t, result.IDs)
	assert.Equal(t, 1, result.Total)
}
