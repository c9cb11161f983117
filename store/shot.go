package store

import (
	"context"
)

// Shot is a time-bounded segment of a video, the primary retrievable unit.
// The embedding vector lives only in the database; HasEmbedding reports its
// presence so list queries never haul 768 floats per row.
type Shot struct {
	ID           int64
	VideoID      int64
	StartMs      int32
	EndMs        int32
	ThumbnailURL *string
	HasEmbedding bool
	CreatedTs    int64
}

type FindShot struct {
	ID      *int64
	IDs     []int64
	VideoID *int64

	// TagSlugs restricts to shots carrying at least one tag whose slug is in
	// the set (OR across slugs).
	TagSlugs []string
	// TagQuery restricts to shots carrying at least one tag whose name has
	// trigram similarity >= Threshold to the query. Results are ordered by
	// the best-matching tag's similarity, descending.
	TagQuery  *string
	Threshold float64

	Limit  *int
	Offset *int
}

// HasTagConstraint reports whether the find carries any tag filter.
func (f *FindShot) HasTagConstraint() bool {
	return len(f.TagSlugs) > 0 || (f.TagQuery != nil && *f.TagQuery != "")
}

type DeleteShot struct {
	ID int64
}

type FindShotsWithoutEmbedding struct {
	Limit int
}

func (s *Store) CreateShot(ctx context.Context, create *Shot) (*Shot, error) {
	return s.driver.CreateShot(ctx, create)
}

func (s *Store) ListShots(ctx context.Context, find *FindShot) ([]*Shot, error) {
	return s.driver.ListShots(ctx, find)
}

func (s *Store) GetShot(ctx context.Context, find *FindShot) (*Shot, error) {
	list, err := s.driver.ListShots(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListShotIDs returns just the identifiers matching find, in the same order
// ListShots would return them. With no Limit set it returns every match;
// the hybrid candidate set is resolved this way.
func (s *Store) ListShotIDs(ctx context.Context, find *FindShot) ([]int64, error) {
	return s.driver.ListShotIDs(ctx, find)
}

func (s *Store) CountShots(ctx context.Context, find *FindShot) (int, error) {
	return s.driver.CountShots(ctx, find)
}

func (s *Store) DeleteShot(ctx context.Context, delete *DeleteShot) error {
	return s.driver.DeleteShot(ctx, delete)
}

// UpdateShotEmbedding stores the embedding vector for a shot.
func (s *Store) UpdateShotEmbedding(ctx context.Context, id int64, embedding []float32) error {
	return s.driver.UpdateShotEmbedding(ctx, id, embedding)
}

// FindShotsWithoutEmbedding returns shots awaiting embedding backfill.
func (s *Store) FindShotsWithoutEmbedding(ctx context.Context, find *FindShotsWithoutEmbedding) ([]*Shot, error) {
	return s.driver.FindShotsWithoutEmbedding(ctx, find)
}

// NearestShotIDs returns shot ids ordered by ascending cosine distance to the
// query vector. Shots without an embedding are never returned. When
// candidateIDs is non-nil the search is restricted to that set; an empty
// candidate set yields an empty result. Ties are broken by shot id ascending.
func (s *Store) NearestShotIDs(ctx context.Context, queryVector []float32, candidateIDs []int64, limit int) ([]int64, error) {
	return s.driver.NearestShotIDs(ctx, queryVector, candidateIDs, limit)
}

// SimilarShots returns up to limit shots nearest to the given shot's own
// embedding, excluding the shot itself. Empty when the shot has no embedding.
func (s *Store) SimilarShots(ctx context.Context, shotID int64, limit int) ([]*Shot, error) {
	return s.driver.SimilarShots(ctx, shotID, limit)
}
