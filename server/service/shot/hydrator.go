package shot

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shotstash/shotstash/store"
)

// Summary is the denormalized presentation record for one shot.
type Summary struct {
	ID           int64    `json:"id"`
	VideoID      int64    `json:"video_id"`
	StartMs      int32    `json:"start_ms"`
	EndMs        int32    `json:"end_ms"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	VideoTitle   string   `json:"video_title"`
	Tags         []string `json:"tags"`
}

// HydratorStore is the slice of the store the hydrator needs.
type HydratorStore interface {
	ListShots(ctx context.Context, find *store.FindShot) ([]*store.Shot, error)
	GetVideo(ctx context.Context, find *store.FindVideo) (*store.Video, error)
	ListShotTags(ctx context.Context, find *store.FindShotTag) ([]*store.ShotTag, error)
}

// Hydrator attaches video titles and tag names to shot records. It always
// preserves the caller's id order even though the underlying batch fetches
// are unordered.
type Hydrator struct {
	store HydratorStore
}

// NewHydrator creates a hydrator.
func NewHydrator(store HydratorStore) *Hydrator {
	return &Hydrator{store: store}
}

// Hydrate resolves ids to summaries, in the given order. Ids that no
// longer resolve to a shot are skipped.
func (h *Hydrator) Hydrate(ctx context.Context, ids []int64) ([]*Summary, error) {
	if len(ids) == 0 {
		return []*Summary{}, nil
	}

	shots, err := h.store.ListShots(ctx, &store.FindShot{IDs: ids})
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*store.Shot, len(shots))
	for _, s := range shots {
		byID[s.ID] = s
	}

	ordered := make([]*store.Shot, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return h.HydrateShots(ctx, ordered)
}

// HydrateShots builds summaries for already-fetched shots, keeping their
// order. Video titles and tag names fetch concurrently.
func (h *Hydrator) HydrateShots(ctx context.Context, shots []*store.Shot) ([]*Summary, error) {
	if len(shots) == 0 {
		return []*Summary{}, nil
	}

	shotIDs := make([]int64, 0, len(shots))
	videoIDs := make(map[int64]struct{}, len(shots))
	for _, s := range shots {
		shotIDs = append(shotIDs, s.ID)
		videoIDs[s.VideoID] = struct{}{}
	}

	var (
		tagsByShot    map[int64][]string
		titlesByVideo map[int64]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shotTags, err := h.store.ListShotTags(gctx, &store.FindShotTag{ShotIDs: shotIDs})
		if err != nil {
			return err
		}
		tagsByShot = make(map[int64][]string, len(shots))
		for _, st := range shotTags {
			tagsByShot[st.ShotID] = append(tagsByShot[st.ShotID], st.TagName)
		}
		return nil
	})
	g.Go(func() error {
		titlesByVideo = make(map[int64]string, len(videoIDs))
		for videoID := range videoIDs {
			video, err := h.store.GetVideo(gctx, &store.FindVideo{ID: &videoID})
			if err != nil {
				return err
			}
			// Missing video yields an empty title rather than a failure.
			if video != nil {
				titlesByVideo[videoID] = video.Title
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(shots))
	for _, s := range shots {
		tags := tagsByShot[s.ID]
		if tags == nil {
			tags = []string{}
		}
		summaries = append(summaries, &Summary{
			ID:           s.ID,
			VideoID:      s.VideoID,
			StartMs:      s.StartMs,
			EndMs:        s.EndMs,
			ThumbnailURL: s.ThumbnailURL,
			VideoTitle:   titlesByVideo[s.VideoID],
			Tags:         tags,
		})
	}
	return summaries, nil
}
