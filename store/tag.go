package store

import (
	"context"
)

// Tag is a descriptive label applied to shots. The slug is the stable
// machine key; the display name is not required to be unique.
type Tag struct {
	ID        int64
	Slug      string
	Name      string
	CreatedTs int64
}

type FindTag struct {
	ID   *int64
	Slug *string

	// Query fuzzy-matches tag names by trigram similarity >= Threshold,
	// ordered by similarity descending.
	Query     *string
	Threshold float64

	Limit  *int
	Offset *int
}

type UpdateTag struct {
	ID   int64
	Slug *string
	Name *string
}

type DeleteTag struct {
	ID int64
}

// ShotTag associates a shot with a tag. TagName is populated on reads that
// join the tag table; it is ignored on writes.
type ShotTag struct {
	ShotID  int64
	TagID   int64
	TagName string
}

type FindShotTag struct {
	ShotID  *int64
	TagID   *int64
	ShotIDs []int64
}

type DeleteShotTag struct {
	ShotID int64
	TagID  int64
}

func (s *Store) CreateTag(ctx context.Context, create *Tag) (*Tag, error) {
	return s.driver.CreateTag(ctx, create)
}

func (s *Store) ListTags(ctx context.Context, find *FindTag) ([]*Tag, error) {
	return s.driver.ListTags(ctx, find)
}

func (s *Store) GetTag(ctx context.Context, find *FindTag) (*Tag, error) {
	list, err := s.driver.ListTags(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) CountTags(ctx context.Context, find *FindTag) (int, error) {
	return s.driver.CountTags(ctx, find)
}

func (s *Store) UpdateTag(ctx context.Context, update *UpdateTag) (*Tag, error) {
	return s.driver.UpdateTag(ctx, update)
}

func (s *Store) DeleteTag(ctx context.Context, delete *DeleteTag) error {
	return s.driver.DeleteTag(ctx, delete)
}

func (s *Store) UpsertShotTag(ctx context.Context, upsert *ShotTag) (*ShotTag, error) {
	return s.driver.UpsertShotTag(ctx, upsert)
}

// ListShotTags lists tag associations. Passing ShotIDs batches the lookup
// for hydration; rows come back with TagName filled in, ordered by tag name.
func (s *Store) ListShotTags(ctx context.Context, find *FindShotTag) ([]*ShotTag, error) {
	return s.driver.ListShotTags(ctx, find)
}

func (s *Store) DeleteShotTag(ctx context.Context, delete *DeleteShotTag) error {
	return s.driver.DeleteShotTag(ctx, delete)
}
