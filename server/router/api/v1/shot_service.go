package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/server/pagination"
	"github.com/shotstash/shotstash/server/retrieval"
	shotservice "github.com/shotstash/shotstash/server/service/shot"
	"github.com/shotstash/shotstash/store"
)

const similarShotLimit = 5

// ListShots is the retrieval endpoint. Without q it is a relational tag
// listing; with q it is vector search, hybrid by default.
func (s *APIV1Service) ListShots(c echo.Context) error {
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

	topK, err := queryInt(c, "top_k", 0)
	if err != nil {
		return errorJSON(c, err)
	}
	threshold, err := queryFloat(c, "threshold", retrieval.DefaultThreshold)
	if err != nil {
		return errorJSON(c, err)
	}
	hybrid, err := queryBool(c, "hybrid", true)
	if err != nil {
		return errorJSON(c, err)
	}

	slugs := c.QueryParams()["tag_slugs"]
	slugs = append(slugs, c.QueryParams()["tag_slugs[]"]...)

	result, err := s.Engine.Search(ctx, &retrieval.SearchOptions{
		Query: c.QueryParam("q"),
		TopK:  topK,
		Filter: retrieval.TagFilter{
			Slugs:     slugs,
			Query:     c.QueryParam("tag_query"),
			Threshold: threshold,
		},
		Hybrid: hybrid,
		Page:   params,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	summaries, err := s.Hydrator.Hydrate(ctx, result.IDs)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(summaries, result.Total, params))
}

type shotDetailResponse struct {
	*shotservice.Summary
	VideoSrcURL  string                 `json:"video_src_url"`
	SimilarShots []*shotservice.Summary `json:"similar_shots"`
}

// GetShot returns one shot with its video source URL and up to 5 nearest
// shots by embedding. The similar list is empty for unembedded shots.
func (s *APIV1Service) GetShot(c echo.Context) error {
	ctx := c.Request().Context()
	shotID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	target, err := s.Store.GetShot(ctx, &store.FindShot{ID: &shotID})
	if err != nil {
		return errorJSON(c, err)
	}
	if target == nil {
		return errorJSON(c, apierrors.NotFound("shot %d not found", shotID))
	}

	summaries, err := s.Hydrator.HydrateShots(ctx, []*store.Shot{target})
	if err != nil {
		return errorJSON(c, err)
	}

	response := &shotDetailResponse{
		Summary:      summaries[0],
		SimilarShots: []*shotservice.Summary{},
	}

	video, err := s.Store.GetVideo(ctx, &store.FindVideo{ID: &target.VideoID})
	if err != nil {
		return errorJSON(c, err)
	}
	if video != nil {
		response.VideoSrcURL = video.SourceURL
	}

	if target.HasEmbedding {
		similar, err := s.Store.SimilarShots(ctx, shotID, similarShotLimit)
		if err != nil {
			return errorJSON(c, err)
		}
		response.SimilarShots, err = s.Hydrator.HydrateShots(ctx, similar)
		if err != nil {
			return errorJSON(c, err)
		}
	}
	return c.JSON(http.StatusOK, response)
}

type createShotRequest struct {
	StartMs      *int32  `json:"start_ms"`
	EndMs        *int32  `json:"end_ms"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// CreateShot registers a new shot under a video. The segment must satisfy
// 0 <= start_ms < end_ms.
func (s *APIV1Service) CreateShot(c echo.Context) error {
	ctx := c.Request().Context()
	videoID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	request := &createShotRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.StartMs == nil || request.EndMs == nil {
		return errorJSON(c, apierrors.Validation("start_ms and end_ms are required"))
	}
	if *request.StartMs < 0 || *request.StartMs >= *request.EndMs {
		return errorJSON(c, apierrors.Validation("segment must satisfy 0 <= start_ms < end_ms, got [%d, %d]", *request.StartMs, *request.EndMs))
	}

	video, err := s.Store.GetVideo(ctx, &store.FindVideo{ID: &videoID})
	if err != nil {
		return errorJSON(c, err)
	}
	if video == nil {
		return errorJSON(c, apierrors.NotFound("video %d not found", videoID))
	}

	shot, err := s.Store.CreateShot(ctx, &store.Shot{
		VideoID:      videoID,
		StartMs:      *request.StartMs,
		EndMs:        *request.EndMs,
		ThumbnailURL: request.ThumbnailURL,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	summaries, err := s.Hydrator.HydrateShots(ctx, []*store.Shot{shot})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, summaries[0])
}

type attachShotTagRequest struct {
	TagID *int64 `json:"tag_id"`
}

// AttachShotTag associates a tag with a shot. Attaching an already
// attached tag is a no-op with set semantics.
func (s *APIV1Service) AttachShotTag(c echo.Context) error {
	ctx := c.Request().Context()
	shotID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	request := &attachShotTagRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.TagID == nil {
		return errorJSON(c, apierrors.Validation("tag_id is required"))
	}

	shot, err := s.Store.GetShot(ctx, &store.FindShot{ID: &shotID})
	if err != nil {
		return errorJSON(c, err)
	}
	if shot == nil {
		return errorJSON(c, apierrors.NotFound("shot %d not found", shotID))
	}
	tag, err := s.Store.GetTag(ctx, &store.FindTag{ID: request.TagID})
	if err != nil {
		return errorJSON(c, err)
	}
	if tag == nil {
		return errorJSON(c, apierrors.NotFound("tag %d not found", *request.TagID))
	}

	if _, err := s.Store.UpsertShotTag(ctx, &store.ShotTag{ShotID: shotID, TagID: tag.ID}); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"shot_id": shotID, "tag_id": tag.ID})
}

// DetachShotTag removes a tag association from a shot.
func (s *APIV1Service) DetachShotTag(c echo.Context) error {
	ctx := c.Request().Context()
	shotID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	tagID, err := pathID(c, "tagID")
	if err != nil {
		return errorJSON(c, err)
	}

	associations, err := s.Store.ListShotTags(ctx, &store.FindShotTag{ShotID: &shotID, TagID: &tagID})
	if err != nil {
		return errorJSON(c, err)
	}
	if len(associations) == 0 {
		return errorJSON(c, apierrors.NotFound("tag %d not attached to shot %d", tagID, shotID))
	}

	if err := s.Store.DeleteShotTag(ctx, &store.DeleteShotTag{ShotID: shotID, TagID: tagID}); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
