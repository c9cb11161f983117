package postgres

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/store"
)

// NearestShotIDs performs vector similarity search using pgvector.
// The <=> operator computes cosine distance, so ordering by it ascending
// returns the most similar shots first. Shots without an embedding never
// match; distance ties break by shot id ascending so results are
// deterministic. A non-nil empty candidate set short-circuits to no rows.
func (d *DB) NearestShotIDs(ctx context.Context, queryVector []float32, candidateIDs []int64, limit int) ([]int64, error) {
	if candidateIDs != nil && len(candidateIDs) == 0 {
		return []int64{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	where, args := []string{"embedding IS NOT NULL"}, []any{}
	if candidateIDs != nil {
		where, args = append(where, "id = ANY("+placeholder(len(args)+1)+")"), append(args, pq.Array(candidateIDs))
	}

	vector := pgvector.NewVector(queryVector)
	query := `
		SELECT id FROM shot
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY embedding <=> ` + placeholder(len(args)+1) + `, id
		LIMIT ` + placeholder(len(args)+2)
	args = append(args, vector, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search shots")
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

// SimilarShots finds shots nearest to the given shot's own embedding,
// excluding the shot itself. Returns no rows when the shot has no embedding.
func (d *DB) SimilarShots(ctx context.Context, shotID int64, limit int) ([]*store.Shot, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT s2.id, s2.video_id, s2.start_ms, s2.end_ms, s2.thumbnail_url,
			TRUE AS has_embedding, s2.created_ts
		FROM shot s1
		JOIN shot s2 ON s2.embedding IS NOT NULL AND s2.id != s1.id
		WHERE s1.id = ` + placeholder(1) + ` AND s1.embedding IS NOT NULL
		ORDER BY s1.embedding <=> s2.embedding, s2.id
		LIMIT ` + placeholder(2)

	rows, err := d.db.QueryContext(ctx, query, shotID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find similar shots")
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
