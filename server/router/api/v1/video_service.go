package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/shotstash/shotstash/server/internal/errors"
	"github.com/shotstash/shotstash/store"
)

type videoResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	SourceURL string `json:"src_url"`
	ShotCount int    `json:"shot_count"`
}

type createVideoRequest struct {
	Title     string `json:"title"`
	SourceURL string `json:"src_url"`
}

// CreateVideo registers a source video.
func (s *APIV1Service) CreateVideo(c echo.Context) error {
	ctx := c.Request().Context()

	request := &createVideoRequest{}
	if err := c.Bind(request); err != nil {
		return errorJSON(c, apierrors.Validation("malformed request body"))
	}
	if request.Title == "" {
		return errorJSON(c, apierrors.Validation("title is required"))
	}
	if request.SourceURL == "" {
		return errorJSON(c, apierrors.Validation("src_url is required"))
	}

	video, err := s.Store.CreateVideo(ctx, &store.Video{Title: request.Title, SourceURL: request.SourceURL})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, &videoResponse{ID: video.ID, Title: video.Title, SourceURL: video.SourceURL})
}

// GetVideo returns a video with its shot count.
func (s *APIV1Service) GetVideo(c echo.Context) error {
	ctx := c.Request().Context()
	videoID, err := pathID(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	video, err := s.Store.GetVideo(ctx, &store.FindVideo{ID: &videoID})
	if err != nil {
		return errorJSON(c, err)
	}
	if video == nil {
		return errorJSON(c, apierrors.NotFound("video %d not found", videoID))
	}

	count, err := s.Store.CountShots(ctx, &store.FindShot{VideoID: &videoID})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, &videoResponse{
		ID:        video.ID,
		Title:     video.Title,
		SourceURL: video.SourceURL,
		ShotCount: count,
	})
}
