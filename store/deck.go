package store

import (
	"context"
)

// Deck is a user-owned ordered collection of shots.
type Deck struct {
	ID        int64
	OwnerID   int64
	Title     string
	CreatedTs int64
}

type FindDeck struct {
	ID      *int64
	OwnerID *int64
}

type DeleteDeck struct {
	ID int64
}

// DeckItem is a shot's membership in a deck. SortOrder values need not be
// contiguous; only their relative order matters.
type DeckItem struct {
	DeckID    int64
	ShotID    int64
	SortOrder int32
}

// FindDeckItem lists deck items ordered by sort_order ascending.
type FindDeckItem struct {
	DeckID *int64
	ShotID *int64
}

type DeleteDeckItem struct {
	DeckID int64
	ShotID int64
}

// DeckItemOrder is one entry of a bulk reorder.
type DeckItemOrder struct {
	ShotID    int64
	SortOrder int32
}

// UpdateDeckItemOrders applies a reorder batch. The driver executes the
// whole batch in one transaction so a mid-batch failure leaves no partial
// state behind.
type UpdateDeckItemOrders struct {
	DeckID int64
	Items  []DeckItemOrder
}

func (s *Store) CreateDeck(ctx context.Context, create *Deck) (*Deck, error) {
	return s.driver.CreateDeck(ctx, create)
}

func (s *Store) ListDecks(ctx context.Context, find *FindDeck) ([]*Deck, error) {
	return s.driver.ListDecks(ctx, find)
}

func (s *Store) GetDeck(ctx context.Context, find *FindDeck) (*Deck, error) {
	list, err := s.driver.ListDecks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteDeck(ctx context.Context, delete *DeleteDeck) error {
	return s.driver.DeleteDeck(ctx, delete)
}

func (s *Store) CreateDeckItem(ctx context.Context, create *DeckItem) (*DeckItem, error) {
	return s.driver.CreateDeckItem(ctx, create)
}

func (s *Store) ListDeckItems(ctx context.Context, find *FindDeckItem) ([]*DeckItem, error) {
	return s.driver.ListDeckItems(ctx, find)
}

func (s *Store) DeleteDeckItem(ctx context.Context, delete *DeleteDeckItem) error {
	return s.driver.DeleteDeckItem(ctx, delete)
}

func (s *Store) UpdateDeckItemOrders(ctx context.Context, update *UpdateDeckItemOrders) error {
	return s.driver.UpdateDeckItemOrders(ctx, update)
}
