package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shotstash/shotstash/internal/profile"
	"github.com/shotstash/shotstash/plugin/embedder"
	apierrors "github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/server/retrieval"
	deckservice "github.com/shotstash/shotstash/server/service/deck"
	shotservice "github.com/shotstash/shotstash/server/service/shot"
	"github.com/shotstash/shotstash/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Engine      *retrieval.Engine
	Hydrator    *shotservice.Hydrator
	DeckService *deckservice.Service
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, embedder embedder.Embedder) *APIV1Service {
	hydrator := shotservice.NewHydrator(store)
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Engine:      retrieval.NewEngine(store, embedder),
		Hydrator:    hydrator,
		DeckService: deckservice.NewService(store, hydrator),
	}
}

// RegisterRoutes mounts all handlers under /api/v1.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.GET("/shots", s.ListShots)
	g.GET("/shots/:id", s.GetShot)
	g.POST("/shots/:id/tags", s.AttachShotTag)
	g.DELETE("/shots/:id/tags/:tagID", s.DetachShotTag)

	g.GET("/tags", s.ListTags)
	g.POST("/tags", s.CreateTag)
	g.PUT("/tags/:id", s.UpdateTag)

	g.POST("/videos", s.CreateVideo)
	g.GET("/videos/:id", s.GetVideo)
	g.POST("/videos/:id/shots", s.CreateShot)

	g.POST("/decks", s.CreateDeck)
	g.GET("/decks", s.ListDecks)
	g.GET("/decks/:id", s.GetDeck)
	g.POST("/decks/:id/items", s.AddDeckItem)
	g.DELETE("/decks/:id/items/:shotID", s.RemoveDeckItem)
	g.PUT("/decks/:id/items/reorder", s.ReorderDeckItems)
}

// errorJSON maps taxonomy errors to statuses: validation and conflict to
// 400, not-found to 404, anything untagged to a generic 500.
func errorJSON(c echo.Context, err error) error {
	if code, ok := apierrors.CodeOf(err); ok {
		status := http.StatusInternalServerError
		switch code {
		case apierrors.ErrCodeValidation, apierrors.ErrCodeConflict:
			status = http.StatusBadRequest
		case apierrors.ErrCodeNotFound:
			status = http.StatusNotFound
		}
		if status != http.StatusInternalServerError {
			return c.JSON(status, map[string]string{"error": err.Error(), "code": string(code)})
		}
	}

	slog.Error("request failed", "path", c.Request().URL.Path, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apierrors.Validation("invalid %s: %q", name, c.Param(name))
	}
	return id, nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.Validation("invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryFloat(c echo.Context, name string, fallback float64) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apierrors.Validation("invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryBool(c echo.Context, name string, fallback bool) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apierrors.Validation("invalid %s: %q", name, raw)
	}
	return v, nil
}
