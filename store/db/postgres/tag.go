package postgres

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/store"
)

func (d *DB) CreateTag(ctx context.Context, create *store.Tag) (*store.Tag, error) {
	stmt := `
		INSERT INTO tag (slug, name)
		VALUES (` + placeholders(2) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt, create.Slug, create.Name).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create tag")
	}
	return create, nil
}

// buildFindTagClauses returns the ORDER BY arguments separately so COUNT
// statements can bind the WHERE arguments alone.
func buildFindTagClauses(find *store.FindTag) (string, []any, string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Slug != nil {
		where, args = append(where, "slug = "+placeholder(len(args)+1)), append(args, *find.Slug)
	}

	orderBy, orderArgs := "id", []any{}
	if find.Query != nil && *find.Query != "" {
		where = append(where, "similarity(name, "+placeholder(len(args)+1)+") >= "+placeholder(len(args)+2))
		args = append(args, *find.Query, find.Threshold)

		orderBy = "similarity(name, " + placeholder(len(args)+1) + ") DESC, id"
		orderArgs = append(orderArgs, *find.Query)
	}

	return strings.Join(where, " AND "), args, orderBy, orderArgs
}

func (d *DB) ListTags(ctx context.Context, find *store.FindTag) ([]*store.Tag, error) {
	where, whereArgs, orderBy, orderArgs := buildFindTagClauses(find)
	args := append(whereArgs, orderArgs...)

	query := `
		SELECT id, slug, name, created_ts
		FROM tag
		WHERE ` + where + `
		ORDER BY ` + orderBy
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
		if find.Offset != nil {
			query += " OFFSET " + placeholder(len(args)+1)
			args = append(args, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}
	defer rows.Close()

	list := []*store.Tag{}
	for rows.Next() {
		var tag store.Tag
		if err := rows.Scan(&tag.ID, &tag.Slug, &tag.Name, &tag.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag")
		}
		list = append(list, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) CountTags(ctx context.Context, find *store.FindTag) (int, error) {
	where, args, _, _ := buildFindTagClauses(find)

	query := `SELECT COUNT(1) FROM tag WHERE ` + where
	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count tags")
	}
	return count, nil
}

func (d *DB) UpdateTag(ctx context.Context, update *store.UpdateTag) (*store.Tag, error) {
	set, args := []string{}, []any{}

	if update.Slug != nil {
		set, args = append(set, "slug = "+placeholder(len(args)+1)), append(args, *update.Slug)
	}
	if update.Name != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *update.Name)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	stmt := `
		UPDATE tag
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)+1) + `
		RETURNING id, slug, name, created_ts
	`
	args = append(args, update.ID)

	var tag store.Tag
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&tag.ID, &tag.Slug, &tag.Name, &tag.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to update tag")
	}
	return &tag, nil
}

func (d *DB) DeleteTag(ctx context.Context, delete *store.DeleteTag) error {
	stmt := `DELETE FROM tag WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete tag")
	}
	return nil
}

func (d *DB) UpsertShotTag(ctx context.Context, upsert *store.ShotTag) (*store.ShotTag, error) {
	stmt := `
		INSERT INTO shot_tag (shot_id, tag_id)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (shot_id, tag_id) DO NOTHING
	`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.ShotID, upsert.TagID); err != nil {
		return nil, errors.Wrap(err, "failed to upsert shot tag")
	}
	return upsert, nil
}

func (d *DB) ListShotTags(ctx context.Context, find *store.FindShotTag) ([]*store.ShotTag, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ShotID != nil {
		where, args = append(where, "st.shot_id = "+placeholder(len(args)+1)), append(args, *find.ShotID)
	}
	if find.TagID != nil {
		where, args = append(where, "st.tag_id = "+placeholder(len(args)+1)), append(args, *find.TagID)
	}
	if find.ShotIDs != nil {
		where, args = append(where, "st.shot_id = ANY("+placeholder(len(args)+1)+")"), append(args, pq.Array(find.ShotIDs))
	}

	query := `
		SELECT st.shot_id, st.tag_id, t.name
		FROM shot_tag st
		JOIN tag t ON t.id = st.tag_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY st.shot_id, t.name
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shot tags")
	}
	defer rows.Close()

	list := []*store.ShotTag{}
	for rows.Next() {
		var shotTag store.ShotTag
		if err := rows.Scan(&shotTag.ShotID, &shotTag.TagID, &shotTag.TagName); err != nil {
			return nil, errors.Wrap(err, "failed to scan shot tag")
		}
		list = append(list, &shotTag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteShotTag(ctx context.Context, delete *store.DeleteShotTag) error {
	stmt := `DELETE FROM shot_tag WHERE shot_id = ` + placeholder(1) + ` AND tag_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ShotID, delete.TagID); err != nil {
		return errors.Wrap(err, "failed to delete shot tag")
	}
	return nil
}
