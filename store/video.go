package store

import (
	"context"
	"fmt"
)

// Video is a source video owning zero or more shots.
type Video struct {
	ID        int64
	Title     string
	SourceURL string
	CreatedTs int64
}

type FindVideo struct {
	ID *int64
}

type DeleteVideo struct {
	ID int64
}

func (s *Store) CreateVideo(ctx context.Context, create *Video) (*Video, error) {
	return s.driver.CreateVideo(ctx, create)
}

func (s *Store) ListVideos(ctx context.Context, find *FindVideo) ([]*Video, error) {
	return s.driver.ListVideos(ctx, find)
}

func (s *Store) GetVideo(ctx context.Context, find *FindVideo) (*Video, error) {
	if find.ID != nil {
		if cached, ok := s.videoCache.Get(ctx, fmt.Sprintf("%d", *find.ID)); ok {
			if video, ok := cached.(*Video); ok {
				return video, nil
			}
		}
	}

	list, err := s.driver.ListVideos(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	video := list[0]
	s.videoCache.Set(ctx, fmt.Sprintf("%d", video.ID), video)
	return video, nil
}

// DeleteVideo removes a video and cascades to its shots, tag
// associations and deck memberships.
func (s *Store) DeleteVideo(ctx context.Context, delete *DeleteVideo) error {
	if err := s.driver.DeleteVideo(ctx, delete); err != nil {
		return err
	}
	s.videoCache.Delete(ctx, fmt.Sprintf("%d", delete.ID))
	return nil
}
