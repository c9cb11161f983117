package postgres

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/store"
)

func (d *DB) CreateShot(ctx context.Context, create *store.Shot) (*store.Shot, error) {
	stmt := `
		INSERT INTO shot (video_id, start_ms, end_ms, thumbnail_url)
		VALUES (` + placeholders(4) + `)
		RETURNING id, created_ts
	`
	err := d.db.QueryRowContext(ctx, stmt,
		create.VideoID,
		create.StartMs,
		create.EndMs,
		create.ThumbnailURL,
	).Scan(&create.ID, &create.CreatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create shot")
	}
	return create, nil
}

// buildFindShotClauses translates a FindShot into WHERE and ORDER BY
// clauses. Tag constraints use EXISTS subqueries so a shot with several
// matching tags still yields one row. With a fuzzy tag query the order is
// the best-matching tag's trigram similarity descending; otherwise shot id
// ascending. The ORDER BY arguments come back separately because COUNT
// statements use the WHERE clause alone; binding the extra argument there
// would fail at the driver.
func buildFindShotClauses(find *store.FindShot) (string, []any, string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "shot.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.IDs != nil {
		where, args = append(where, "shot.id = ANY("+placeholder(len(args)+1)+")"), append(args, pq.Array(find.IDs))
	}
	if find.VideoID != nil {
		where, args = append(where, "shot.video_id = "+placeholder(len(args)+1)), append(args, *find.VideoID)
	}
	if len(find.TagSlugs) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM shot_tag st
			JOIN tag t ON t.id = st.tag_id
			WHERE st.shot_id = shot.id AND t.slug = ANY(`+placeholder(len(args)+1)+`)
		)`)
		args = append(args, pq.Array(find.TagSlugs))
	}

	orderBy, orderArgs := "shot.id", []any{}
	if find.TagQuery != nil && *find.TagQuery != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM shot_tag st
			JOIN tag t ON t.id = st.tag_id
			WHERE st.shot_id = shot.id AND similarity(t.name, `+placeholder(len(args)+1)+`) >= `+placeholder(len(args)+2)+`
		)`)
		args = append(args, *find.TagQuery, find.Threshold)

		orderBy = `(
			SELECT COALESCE(MAX(similarity(t.name, ` + placeholder(len(args)+1) + `)), 0) FROM shot_tag st
			JOIN tag t ON t.id = st.tag_id
			WHERE st.shot_id = shot.id
		) DESC, shot.id`
		orderArgs = append(orderArgs, *find.TagQuery)
	}

	return strings.Join(where, " AND "), args, orderBy, orderArgs
}

func appendLimitOffset(query string, find *store.FindShot, args []any) (string, []any) {
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
		if find.Offset != nil {
			query += " OFFSET " + placeholder(len(args)+1)
			args = append(args, *find.Offset)
		}
	}
	return query, args
}

func (d *DB) ListShots(ctx context.Context, find *store.FindShot) ([]*store.Shot, error) {
	where, whereArgs, orderBy, orderArgs := buildFindShotClauses(find)
	args := append(whereArgs, orderArgs...)

	query := `
		SELECT shot.id, shot.video_id, shot.start_ms, shot.end_ms, shot.thumbnail_url,
			shot.embedding IS NOT NULL AS has_embedding, shot.created_ts
		FROM shot
		WHERE ` + where + `
		ORDER BY ` + orderBy
	query, args = appendLimitOffset(query, find, args)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shots")
	}
	defer rows.Close()

	list := []*store.Shot{}
	for rows.Next() {
		var shot store.Shot
		err := rows.Scan(
			&shot.ID,
			&shot.VideoID,
			&shot.StartMs,
			&shot.EndMs,
			&shot.ThumbnailURL,
			&shot.HasEmbedding,
			&shot.CreatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan shot")
		}
		list = append(list, &shot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) ListShotIDs(ctx context.Context, find *store.FindShot) ([]int64, error) {
	where, whereArgs, orderBy, orderArgs := buildFindShotClauses(find)
	args := append(whereArgs, orderArgs...)

	query := `SELECT shot.id FROM shot WHERE ` + where + ` ORDER BY ` + orderBy
	query, args = appendLimitOffset(query, find, args)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shot ids")
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan shot id")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (d *DB) CountShots(ctx context.Context, find *store.FindShot) (int, error) {
	where, args, _, _ := buildFindShotClauses(find)

	query := `SELECT COUNT(1) FROM shot WHERE ` + where
	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count shots")
	}
	return count, nil
}

// DeleteShot removes a shot. shot_tag and deck_item rows cascade via
// foreign keys.
func (d *DB) DeleteShot(ctx context.Context, delete *store.DeleteShot) error {
	stmt := `DELETE FROM shot WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete shot")
	}
	return nil
}

func (d *DB) UpdateShotEmbedding(ctx context.Context, id int64, embedding []float32) error {
	stmt := `UPDATE shot SET embedding = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
	result, err := d.db.ExecContext(ctx, stmt, pgvector.NewVector(embedding), id)
	if err != nil {
		return errors.Wrap(err, "failed to update shot embedding")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.Errorf("shot %d not found", id)
	}
	return nil
}

func (d *DB) FindShotsWithoutEmbedding(ctx context.Context, find *store.FindShotsWithoutEmbedding) ([]*store.Shot, error) {
	limit := find.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT shot.id, shot.video_id, shot.start_ms, shot.end_ms, shot.thumbnail_url,
			FALSE AS has_embedding, shot.created_ts
		FROM shot
		WHERE shot.embedding IS NULL
		ORDER BY shot.created_ts DESC, shot.id DESC
		LIMIT ` + placeholder(1)

	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find shots without embedding")
	}
	defer rows.Close()

	list := []*store.Shot{}
	for rows.Next() {
		var shot store.Shot
		err := rows.Scan(
			&shot.ID,
			&shot.VideoID,
			&shot.StartMs,
			&shot.EndMs,
			&shot.ThumbnailURL,
			&shot.HasEmbedding,
			&shot.CreatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan shot")
		}
		list = append(list, &shot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
