package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
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

const selectPricingColumns = `
	p.id, p.karat_id, k.name, p.loan_period_id, lp.months, p.price, p.updated_at
`

const fromPricing = `
	FROM pricing p
	JOIN karats k ON p.karat_id = k.id
	JOIN loan_periods lp ON p.loan_period_id = lp.id
`

func scanPricing(s scanner) (*pricing.Pricing, error) {
	var p pricing.Pricing
	if err := s.Scan(&p.ID, &p.KaratID, &p.KaratName, &p.LoanPeriodID, &p.Months, &p.Price, &p.UpdatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func (s *Store) ListKarats(ctx context.Context) ([]*pricing.Karat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM karats ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing karats: %w", err)
	}
	defer rows.Close()

	var karats []*pricing.Karat

	for rows.Next() {
		var k pricing.Karat
		if err := rows.Scan(&k.ID, &k.Name); err != nil {
			return nil, fmt.Errorf("scanning karat: %w", err)
		}

		karats = append(karats, &k)
	}

	return karats, rows.Err()
}

func (s *Store) ListLoanPeriods(ctx context.Context) ([]*pricing.LoanPeriod, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, months FROM loan_periods ORDER BY months ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing loan periods: %w", err)
	}
	defer rows.Close()

	var periods []*pricing.LoanPeriod

	for rows.Next() {
		var lp pricing.LoanPeriod
		if err := rows.Scan(&lp.ID, &lp.Months); err != nil {
			return nil, fmt.Errorf("scanning loan period: %w", err)
		}

		periods = append(periods, &lp)
	}

	return periods, rows.Err()
}

func (s *Store) ListPricing(ctx context.Context) ([]*pricing.Pricing, error) {
	query := `SELECT ` + selectPricingColumns + fromPricing + `ORDER BY k.name ASC, lp.months ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pricing: %w", err)
	}
	defer rows.Close()

	var list []*pricing.Pricing

	for rows.Next() {
		p, err := scanPricing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pricing: %w", err)
		}

		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pricing rows: %w", err)
	}

	return list, nil
}

func (s *Store) getOne(ctx context.Context, where string, args ...any) (*pricing.Pricing, error) {
	query := `SELECT ` + selectPricingColumns + fromPricing + `WHERE ` + where

	p, err := scanPricing(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pricing.ErrNotFound
		}

		return nil, fmt.Errorf("getting pricing: %w", err)
	}

	return p, nil
}

func (s *Store) GetPricing(ctx context.Context, id uuid.UUID) (*pricing.Pricing, error) {
	return s.getOne(ctx, "p.id = $1", id)
}

func (s *Store) FindPricing(ctx context.Context, karatID, loanPeriodID int) (*pricing.Pricing, error) {
	return s.getOne(ctx, "p.karat_id = $1 AND p.loan_period_id = $2", karatID, loanPeriodID)
}

func (s *Store) CreatePricing(ctx context.Context, p *pricing.Pricing) error {
	query := `
		INSERT INTO pricing (karat_id, loan_period_id, price, updated_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, p.KaratID, p.LoanPeriodID, p.Price).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		switch pgCode(err) {
		case uniqueViolation:
			return pricing.ErrDuplicate
		case foreignKeyViolation:
			return fmt.Errorf("%w: unknown karat or loan period", pricing.ErrInvalid)
		}

		return fmt.Errorf("creating pricing: %w", err)
	}

	return nil
}

func (s *Store) UpdatePricing(ctx context.Context, p *pricing.Pricing) error {
	query := `UPDATE pricing SET price = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`

	if err := s.db.QueryRowContext(ctx, query, p.Price, p.ID).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.ErrNotFound
		}

		return fmt.Errorf("updating pricing: %w", err)
	}

	return nil
}

func (s *Store) DeletePricing(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pricing WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting pricing: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pricing.ErrNotFound
	}

	return nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (pricing.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "LOCK TABLE pricing IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring pricing lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) UpsertKarat(ctx context.Context, name string) (int, error) {
	query := `
		INSERT INTO karats (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var id int
	if err := itx.tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upserting karat: %w", err)
	}

	return id, nil
}

func (itx *importTx) UpsertLoanPeriod(ctx context.Context, months int) (int, error) {
	query := `
		INSERT INTO loan_periods (months) VALUES ($1)
		ON CONFLICT (months) DO UPDATE SET months = EXCLUDED.months
		RETURNING id
	`

	var id int
	if err := itx.tx.QueryRowContext(ctx, query, months).Scan(&id); err != nil {
		return 0, fmt.Errorf("upserting loan period: %w", err)
	}

	return id, nil
}

// UpsertPricing reports whether the row was inserted rather than updated.
func (itx *importTx) UpsertPricing(ctx context.Context, p *pricing.Pricing) (bool, error) {
	query := `
		INSERT INTO pricing (karat_id, loan_period_id, price, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (karat_id, loan_period_id) DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
		RETURNING id, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	if err := itx.tx.QueryRowContext(ctx, query, p.KaratID, p.LoanPeriodID, p.Price).Scan(&p.ID, &p.UpdatedAt, &inserted); err != nil {
		return false, fmt.Errorf("upserting pricing: %w", err)
	}

	return inserted, nil
}
