package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/store"
)

type deckResponse struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Title   string `json:"title"`
}

func convertDeck(deck *store.Deck) *deckResponse {
	return &deckResponse{ID: deck.ID, OwnerID: deck.OwnerID, Title: deck.Title}
}

type createDeckRequest struct {
	OwnerID *int64 `json:"owner_id"`
	Title   string `json:"title"`
}

// CreateDeck creates an empty deck.
func (s *APIV1Service) CreateDeck(c echo.Context) error {
	ctx := c.Request().Context()

	request := &createDeckRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.OwnerID == nil {
		return errorJSON(c, apierrors.Validation("owner_id is required"))
	}
	if request.Title == "" {
		return errorJSON(c, apierrors.Validation("title is required"))
	}

	deck, err := s.Store.CreateDeck(ctx, &store.Deck{OwnerID: *request.OwnerID, Title: request.Title})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertDeck(deck))
}

// ListDecks lists decks, optionally restricted to one owner.
func (s *APIV1Service) ListDecks(c echo.Context) error {
	ctx := c.Request().Context()

	find := &store.FindDeck{}
	if raw := c.QueryParam("owner_id"); raw != "" {
		ownerID, err := queryInt(c, "owner_id", 0)
		if err != nil {
			return errorJSON(c, err)
		}
		owner := int64(ownerID)
		find.OwnerID = &owner
	}

	decks, err := s.Store.ListDecks(ctx, find)
	if err != nil {
		return errorJSON(c, err)
	}

	items := make([]*deckResponse, 0, len(decks))
	for _, deck := range decks {
		items = append(items, convertDeck(deck))
	}
	return c.JSON(http.StatusOK, items)
}

// GetDeck returns a deck with its ordered, hydrated items.
func (s *APIV1Service) GetDeck(c echo.Context) error {
	ctx := c.Request().Context()
	deckID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	detail, err := s.DeckService.GetDetail(ctx, deckID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type addDeckItemRequest struct {
	ShotID    *int64 `json:"shot_id"`
	SortOrder *int32 `json:"sort_order"`
}

// AddDeckItem appends a shot to a deck.
func (s *APIV1Service) AddDeckItem(c echo.Context) error {
	ctx := c.Request().Context()
	deckID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	request := &addDeckItemRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.ShotID == nil {
		return errorJSON(c, apierrors.Validation("shot_id is required"))
	}

	item, err := s.DeckService.AddItem(ctx, deckID, *request.ShotID, request.SortOrder)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveDeckItem deletes a deck membership.
func (s *APIV1Service) RemoveDeckItem(c echo.Context) error {
	ctx := c.Request().Context()
	deckID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	shotID, err := pathID(c, "shotID")
	if err != nil {
		return errorJSON(c, err)
	}

	if err := s.DeckService.RemoveItem(ctx, deckID, shotID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

type reorderDeckItemsRequest struct {
	Items []reorderDeckItemEntry `json:"items"`
}

type reorderDeckItemEntry struct {
	ShotID    *int64 `json:"shot_id"`
	SortOrder *int32 `json:"sort_order"`
}

// ReorderDeckItems applies a bulk sort_order update. The batch applies
// atomically or not at all.
func (s *APIV1Service) ReorderDeckItems(c echo.Context) error {
	ctx := c.Request().Context()
	deckID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	request := &reorderDeckItemsRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if len(request.Items) == 0 {
		return errorJSON(c, apierrors.Validation("items must not be empty"))
	}

	orders := make([]store.DeckItemOrder, 0, len(request.Items))
	for i, entry := range request.Items {
		if entry.ShotID == nil || entry.SortOrder == nil {
			return errorJSON(c, apierrors.Validation("items[%d] must carry shot_id and sort_order", i))
		}
		orders = append(orders, store.DeckItemOrder{ShotID: *entry.ShotID, SortOrder: *entry.SortOrder})
	}

	if err := s.DeckService.Reorder(ctx, deckID, orders); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
