package deck

import (
	"context"
	"fmt"

	"github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/server/service/shot"
	"github.com/shotstash/shotstash/store"
)

// Store is the slice of the store the deck service needs.
type Store interface {
	GetDeck(ctx context.Context, find *store.FindDeck) (*store.Deck, error)
	GetShot(ctx context.Context, find *store.FindShot) (*store.Shot, error)
	ListDeckItems(ctx context.Context, find *store.FindDeckItem) ([]*store.DeckItem, error)
	CreateDeckItem(ctx context.Context, create *store.DeckItem) (*store.DeckItem, error)
	DeleteDeckItem(ctx context.Context, delete *store.DeleteDeckItem) error
	UpdateDeckItemOrders(ctx context.Context, update *store.UpdateDeckItemOrders) error
}

// Service maintains the ordered shot sequence of a deck.
type Service struct {
	store    Store
	hydrator *shot.Hydrator
}

// NewService creates a deck service.
func NewService(store Store, hydrator *shot.Hydrator) *Service {
	return &Service{store: store, hydrator: hydrator}
}

// Item is one hydrated deck entry.
type Item struct {
	ShotID     int64    `json:"shot_id"`
	SortOrder  int32    `json:"sort_order"`
	ShotTitle  string   `json:"shot_title"`
	VideoTitle string   `json:"video_title"`
	Tags       []string `json:"tags"`
}

// Detail is a deck with its ordered, hydrated items.
type Detail struct {
	ID      int64   `json:"id"`
	OwnerID int64   `json:"owner_id"`
	Title   string  `json:"title"`
	Items   []*Item `json:"items"`
}

// shotLabel renders shot timing as the human-readable item title.
func shotLabel(startMs, endMs int32) string {
	return fmt.Sprintf("%dms - %dms", startMs, endMs)
}

// AddItem appends a shot to a deck. Without an explicit order it assigns
// max(existing sort_order) + 1, or 0 for an empty deck; a purely monotonic
// append, not a gap-filling scheme.
func (s *Service) AddItem(ctx context.Context, deckID, shotID int64, sortOrder *int32) (*Item, error) {
	deck, err := s.store.GetDeck(ctx, &store.FindDeck{ID: &deckID})
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, errors.NotFound("deck %d not found", deckID)
	}

	target, err := s.store.GetShot(ctx, &store.FindShot{ID: &shotID})
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.NotFound("shot %d not found", shotID)
	}

	items, err := s.store.ListDeckItems(ctx, &store.FindDeckItem{DeckID: &deckID})
	if err != nil {
		return nil, err
	}

	order := int32(0)
	for _, item := range items {
		if item.ShotID == shotID {
			return nil, errors.Conflict("shot %d already in deck %d", shotID, deckID)
		}
		if item.SortOrder >= order {
			order = item.SortOrder + 1
		}
	}
	if sortOrder != nil {
		order = *sortOrder
	}

	created, err := s.store.CreateDeckItem(ctx, &store.DeckItem{
		DeckID:    deckID,
		ShotID:    shotID,
		SortOrder: order,
	})
	if err != nil {
		return nil, err
	}

	summaries, err := s.hydrator.Hydrate(ctx, []int64{shotID})
	if err != nil {
		return nil, err
	}

	item := &Item{ShotID: created.ShotID, SortOrder: created.SortOrder, ShotTitle: shotLabel(target.StartMs, target.EndMs)}
	if len(summaries) > 0 {
		item.VideoTitle = summaries[0].VideoTitle
		item.Tags = summaries[0].Tags
	}
	return item, nil
}

// RemoveItem deletes a deck membership.
func (s *Service) RemoveItem(ctx context.Context, deckID, shotID int64) error {
	items, err := s.store.ListDeckItems(ctx, &store.FindDeckItem{DeckID: &deckID, ShotID: &shotID})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.NotFound("shot %d not in deck %d", shotID, deckID)
	}
	return s.store.DeleteDeckItem(ctx, &store.DeleteDeckItem{DeckID: deckID, ShotID: shotID})
}

// Reorder applies a bulk sort_order update. Every referenced shot must
// already be a member of the deck; the whole batch applies atomically or
// not at all.
func (s *Service) Reorder(ctx context.Context, deckID int64, orders []store.DeckItemOrder) error {
	deck, err := s.store.GetDeck(ctx, &store.FindDeck{ID: &deckID})
	if err != nil {
		return err
	}
	if deck == nil {
		return errors.NotFound("deck %d not found", deckID)
	}

	items, err := s.store.ListDeckItems(ctx, &store.FindDeckItem{DeckID: &deckID})
	if err != nil {
		return err
	}
	members := make(map[int64]struct{}, len(items))
	for _, item := range items {
		members[item.ShotID] = struct{}{}
	}
	for _, order := range orders {
		if _, ok := members[order.ShotID]; !ok {
			return errors.NotFound("shot %d not in deck %d", order.ShotID, deckID)
		}
	}

	return s.store.UpdateDeckItemOrders(ctx, &store.UpdateDeckItemOrders{
		DeckID: deckID,
		Items:  orders,
	})
}

// GetDetail returns the deck with items sorted ascending by sort_order,
// each hydrated with its shot timing label, video title and tag names.
func (s *Service) GetDetail(ctx context.Context, deckID int64) (*Detail, error) {
	deck, err := s.store.GetDeck(ctx, &store.FindDeck{ID: &deckID})
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, errors.NotFound("deck %d not found", deckID)
	}

	items, err := s.store.ListDeckItems(ctx, &store.FindDeckItem{DeckID: &deckID})
	if err != nil {
		return nil, err
	}

	shotIDs := make([]int64, 0, len(items))
	orderByShot := make(map[int64]int32, len(items))
	for _, item := range items {
		shotIDs = append(shotIDs, item.ShotID)
		orderByShot[item.ShotID] = item.SortOrder
	}

	summaries, err := s.hydrator.Hydrate(ctx, shotIDs)
	if err != nil {
		return nil, err
	}

	detail := &Detail{ID: deck.ID, OwnerID: deck.OwnerID, Title: deck.Title, Items: []*Item{}}
	for _, summary := range summaries {
		detail.Items = append(detail.Items, &Item{
			ShotID:     summary.ID,
			SortOrder:  orderByShot[summary.ID],
			ShotTitle:  shotLabel(summary.StartMs, summary.EndMs),
			VideoTitle: summary.VideoTitle,
			Tags:       summary.Tags,
		})
	}
	return detail, nil
}
