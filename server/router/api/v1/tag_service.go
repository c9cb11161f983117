package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/server/pagination"
	"github.com/shotstash/shotstash/server/retrieval"
	"github.com/shotstash/shotstash/store"
)

type tagResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func convertTag(tag *store.Tag) *tagResponse {
	return &tagResponse{ID: tag.ID, Slug: tag.Slug, Name: tag.Name}
}

// ListTags returns tags, fuzzy-ranked by trigram similarity when a query
// is given, id-ordered otherwise.
func (s *APIV1Service) ListTags(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return errorJSON(c, err)
	}
	pageSize, err := queryInt(c, "page_size", 0)
	if err != nil {
		return errorJSON(c, err)
	}
	params, err := pagination.NewParams(page, pageSize)
	if err != nil {
		return errorJSON(c, err)
	}
	threshold, err := queryFloat(c, "threshold", retrieval.DefaultThreshold)
	if err != nil {
		return errorJSON(c, err)
	}
	if threshold < 0 || threshold > 1 {
		return errorJSON(c, apierrors.Validation("threshold must be in [0,1], got %g", threshold))
	}

	find := &store.FindTag{Threshold: threshold}
	if query := c.QueryParam("query"); query != "" {
		find.Query = &query
	}

	total, err := s.Store.CountTags(ctx, find)
	if err != nil {
		return errorJSON(c, err)
	}

	limit := params.PageSize
	offset := params.Offset()
	find.Limit = &limit
	find.Offset = &offset

	tags, err := s.Store.ListTags(ctx, find)
	if err != nil {
		return errorJSON(c, err)
	}

	items := make([]*tagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, convertTag(tag))
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, params))
}

type createTagRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// CreateTag registers a new tag. Slugs are unique; a duplicate fails
// regardless of the display name.
func (s *APIV1Service) CreateTag(c echo.Context) error {
	ctx := c.Request().Context()

	request := &createTagRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.Slug == "" {
		return errorJSON(c, apierrors.Validation("slug is required"))
	}
	if request.Name == "" {
		return errorJSON(c, apierrors.Validation("name is required"))
	}

	existing, err := s.Store.GetTag(ctx, &store.FindTag{Slug: &request.Slug})
	if err != nil {
		return errorJSON(c, err)
	}
	if existing != nil {
		return errorJSON(c, apierrors.Conflict("tag slug %q already exists", request.Slug))
	}

	tag, err := s.Store.CreateTag(ctx, &store.Tag{Slug: request.Slug, Name: request.Name})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertTag(tag))
}

type updateTagRequest struct {
	Slug *string `json:"slug"`
	Name *string `json:"name"`
}

// UpdateTag renames a tag or changes its slug. Changing the slug to one
// held by another tag fails.
func (s *APIV1Service) UpdateTag(c echo.Context) error {
	ctx := c.Request().Context()
	tagID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	request := &updateTagRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.Slug == nil && request.Name == nil {
		return errorJSON(c, apierrors.Validation("nothing to update"))
	}
	if request.Slug != nil && *request.Slug == "" {
		return errorJSON(c, apierrors.Validation("slug must not be empty"))
	}
	if request.Name != nil && *request.Name == "" {
		return errorJSON(c, apierrors.Validation("name must not be empty"))
	}

	existing, err := s.Store.GetTag(ctx, &store.FindTag{ID: &tagID})
	if err != nil {
		return errorJSON(c, err)
	}
	if existing == nil {
		return errorJSON(c, apierrors.NotFound("tag %d not found", tagID))
	}

	if request.Slug != nil && *request.Slug != existing.Slug {
		holder, err := s.Store.GetTag(ctx, &store.FindTag{Slug: request.Slug})
		if err != nil {
			return errorJSON(c, err)
		}
		if holder != nil {
			return errorJSON(c, apierrors.Conflict("tag slug %q already exists", *request.Slug))
		}
	}

	tag, err := s.Store.UpdateTag(ctx, &store.UpdateTag{ID: tagID, Slug: request.Slug, Name: request.Name})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertTag(tag))
}
