package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/item"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectItemColumns = `id, customer_id, description, caratage, gold_weight, value, invoice_id, created_at, updated_at`

func scanItem(s scanner) (*item.Item, error) {
	var it item.Item

	err := s.Scan(&it.ID, &it.CustomerID, &it.Description, &it.Caratage,
		&it.GoldWeight, &it.Value, &it.InvoiceID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &it, nil
}

func (s *Store) CreateItem(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (customer_id, description, caratage, gold_weight, value, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, it.CustomerID, it.Description, it.Caratage, it.GoldWeight, it.Value).
		Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items WHERE id = $1`

	it, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, item.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return it, nil
}

func (s *Store) GetItems(ctx context.Context, ids []uuid.UUID) ([]*item.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items WHERE id::text = ANY($1) ORDER BY created_at ASC`

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	return s.list(ctx, query, keys)
}

func (s *Store) ListItems(ctx context.Context, customerID uuid.UUID, onlyAvailable bool) ([]*item.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items WHERE customer_id = $1`
	if onlyAvailable {
		query += ` AND invoice_id IS NULL`
	}

	query += ` ORDER BY created_at ASC`

	return s.list(ctx, query, customerID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*item.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET description = $1, caratage = $2, gold_weight = $3, value = $4, updated_at = NOW()
		WHERE id = $5 AND invoice_id IS NULL
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, it.Description, it.Caratage, it.GoldWeight, it.Value, it.ID).
		Scan(&it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item.ErrLinked
		}

		return fmt.Errorf("updating item: %w", err)
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1 AND invoice_id IS NULL`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return item.ErrLinked
	}

	return nil
}
