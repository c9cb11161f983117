package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/store"
)

func (d *DB) CreateDeck(ctx context.Context, create *store.Deck) (*store.Deck, error) {
	stmt := `
		INSERT INTO deck (owner_id, title)
		VALUES (` + placeholders(2) + `)
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt, create.OwnerID, create.Title).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create deck")
	}
	return create, nil
}

func (d *DB) ListDecks(ctx context.Context, find *store.FindDeck) ([]*store.Deck, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.OwnerID != nil {
		where, args = append(where, "owner_id = "+placeholder(len(args)+1)), append(args, *find.OwnerID)
	}

	query := `
		SELECT id, owner_id, title, created_ts
		FROM deck
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list decks")
	}
	defer rows.Close()

	list := []*store.Deck{}
	for rows.Next() {
		var deck store.Deck
		if err := rows.Scan(&deck.ID, &deck.OwnerID, &deck.Title, &deck.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan deck")
		}
		list = append(list, &deck)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteDeck removes a deck. deck_item rows cascade via foreign keys.
func (d *DB) DeleteDeck(ctx context.Context, delete *store.DeleteDeck) error {
	stmt := `DELETE FROM deck WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete deck")
	}
	return nil
}

func (d *DB) CreateDeckItem(ctx context.Context, create *store.DeckItem) (*store.DeckItem, error) {
	stmt := `
		INSERT INTO deck_item (deck_id, shot_id, sort_order)
		VALUES (` + placeholders(3) + `)
	`
	if _, err := d.db.ExecContext(ctx, stmt, create.DeckID, create.ShotID, create.SortOrder); err != nil {
		return nil, errors.Wrap(err, "failed to create deck item")
	}
	return create, nil
}

func (d *DB) ListDeckItems(ctx context.Context, find *store.FindDeckItem) ([]*store.DeckItem, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.DeckID != nil {
		where, args = append(where, "deck_id = "+placeholder(len(args)+1)), append(args, *find.DeckID)
	}
	if find.ShotID != nil {
		where, args = append(where, "shot_id = "+placeholder(len(args)+1)), append(args, *find.ShotID)
	}

	query := `
		SELECT deck_id, shot_id, sort_order
		FROM deck_item
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY sort_order
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deck items")
	}
	defer rows.Close()

	list := []*store.DeckItem{}
	for rows.Next() {
		var item store.DeckItem
		if err := rows.Scan(&item.DeckID, &item.ShotID, &item.SortOrder); err != nil {
			return nil, errors.Wrap(err, "failed to scan deck item")
		}
		list = append(list, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteDeckItem(ctx context.Context, delete *store.DeleteDeckItem) error {
	stmt := `DELETE FROM deck_item WHERE deck_id = ` + placeholder(1) + ` AND shot_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, delete.DeckID, delete.ShotID); err != nil {
		return errors.Wrap(err, "failed to delete deck item")
	}
	return nil
}

// UpdateDeckItemOrders applies a reorder batch inside one transaction so a
// mid-batch failure rolls the whole batch back.
func (d *DB) UpdateDeckItemOrders(ctx context.Context, update *store.UpdateDeckItemOrders) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `UPDATE deck_item SET sort_order = ` + placeholder(1) + ` WHERE deck_id = ` + placeholder(2) + ` AND shot_id = ` + placeholder(3)
	for _, item := range update.Items {
		result, err := tx.ExecContext(ctx, stmt, item.SortOrder, update.DeckID, item.ShotID)
		if err != nil {
			return errors.Wrapf(err, "failed to update sort order for shot %d", item.ShotID)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return errors.Errorf("shot %d not in deck %d", item.ShotID, update.DeckID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit reorder")
	}
	return nil
}
