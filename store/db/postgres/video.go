package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/store"
)

func (d *DB) CreateVideo(ctx context.Context, create *store.Video) (*store.Video, error) {
	stmt := `
		INSERT INTO video (title, source_url)
		VALUES (` + placeholders(2) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt, create.Title, create.SourceURL).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create video")
	}
	return create, nil
}

func (d *DB) ListVideos(ctx context.Context, find *store.FindVideo) ([]*store.Video, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}

	query := `
		SELECT id, title, source_url, created_ts
		FROM video
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list videos")
	}
	defer rows.Close()

	list := []*store.Video{}
	for rows.Next() {
		var video store.Video
		if err := rows.Scan(&video.ID, &video.Title, &video.SourceURL, &video.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan video")
		}
		list = append(list, &video)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteVideo removes a video. shot, shot_tag and deck_item rows cascade
// via foreign keys.
func (d *DB) DeleteVideo(ctx context.Context, delete *store.DeleteVideo) error {
	stmt := `DELETE FROM video WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete video")
	}
	return nil
}
