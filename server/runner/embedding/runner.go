package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/plugin/embedder"
	"github.com/shotstash/shotstash/store"
)

// Store is the slice of the store the runner needs.
type Store interface {
	FindShotsWithoutEmbedding(ctx context.Context, find *store.FindShotsWithoutEmbedding) ([]*store.Shot, error)
	UpdateShotEmbedding(ctx context.Context, id int64, embedding []float32) error
	GetVideo(ctx context.Context, find *store.FindVideo) (*store.Video, error)
	ListShotTags(ctx context.Context, find *store.FindShotTag) ([]*store.ShotTag, error)
}

// Runner backfills embeddings for shots that do not have one yet. Shot
// vectors are normally produced by an out-of-band pipeline; this runner
// covers shots that slipped through, embedding a text description built
// from the owning video's title, tag names and timing.
type Runner struct {
	store     Store
	embedder  embedder.Embedder
	interval  time.Duration
	batchSize int
}

// NewRunner creates an embedding backfill runner.
func NewRunner(store Store, embedder embedder.Embedder, interval time.Duration) *Runner {
	return &Runner{
		store:     store,
		embedder:  embedder,
		interval:  interval,
		batchSize: 16,
	}
}

// Run starts the backfill loop. It processes once on startup and then on
// every tick until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes one batch of shots without embeddings.
func (r *Runner) RunOnce(ctx context.Context) {
	shots, err := r.store.FindShotsWithoutEmbedding(ctx, &store.FindShotsWithoutEmbedding{Limit: r.batchSize})
	if err != nil {
		slog.Error("failed to find shots without embedding", "error", err)
		return
	}
	if len(shots) == 0 {
		return
	}

	slog.Info("backfilling shot embeddings", "count", len(shots))
	for _, s := range shots {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := r.processShot(ctx, s); err != nil {
			slog.Error("failed to embed shot", "shot_id", s.ID, "error", err)
		}
	}
}

func (r *Runner) processShot(ctx context.Context, s *store.Shot) error {
	text, err := r.describeShot(ctx, s)
	if err != nil {
		return err
	}

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return errors.Wrap(err, "embed failed")
	}
	if vector == nil {
		// Embedder disabled; nothing to store.
		return nil
	}

	return r.store.UpdateShotEmbedding(ctx, s.ID, vector)
}

// describeShot builds the text stand-in for a shot's visual content.
func (r *Runner) describeShot(ctx context.Context, s *store.Shot) (string, error) {
	parts := []string{}

	video, err := r.store.GetVideo(ctx, &store.FindVideo{ID: &s.VideoID})
	if err != nil {
		return "", err
	}
	if video != nil {
		parts = append(parts, video.Title)
	}

	shotTags, err := r.store.ListShotTags(ctx, &store.FindShotTag{ShotID: &s.ID})
	if err != nil {
		return "", err
	}
	for _, st := range shotTags {
		parts = append(parts, st.TagName)
	}

	parts = append(parts, fmt.Sprintf("segment %dms to %dms", s.StartMs, s.EndMs))
	return strings.Join(parts, " "), nil
}
