package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCustomerColumns = `id, nic, name, address, phone, created_at, updated_at`

func scanCustomer(s scanner) (*customer.Customer, error) {
	var c customer.Customer
	if err := s.Scan(&c.ID, &c.NIC, &c.Name, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (nic, name, address, phone, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.NIC, c.Name, c.Address, c.Phone).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrDuplicateNIC
		}

		return fmt.Errorf("creating customer: %w", err)
	}

	return nil
}

func (s *Store) get(ctx context.Context, where string, arg any) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE ` + where

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return s.get(ctx, "id = $1", id)
}

func (s *Store) GetCustomerByNIC(ctx context.Context, nic string) (*customer.Customer, error) {
	return s.get(ctx, "nic = $1", nic)
}

func (s *Store) ListCustomers(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, int, error) {
	where := ""

	var args []any

	if filter.Query != "" {
		where = " WHERE nic ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'"

		args = append(args, filter.Query)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}

	query := `SELECT ` + selectCustomerColumns + ` FROM customers` + where + ` ORDER BY name ASC, nic ASC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning customer: %w", err)
		}

		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, total, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET nic = $1, name = $2, address = $3, phone = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.NIC, c.Name, c.Address, c.Phone, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customer.ErrNotFound
		}

		if isUniqueViolation(err) {
			return customer.ErrDuplicateNIC
		}

		return fmt.Errorf("updating customer: %w", err)
	}

	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return customer.ErrNotFound
	}

	return nil
}

func (s *Store) HasInvoices(ctx context.Context, id uuid.UUID) (bool, error) {
	var has bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE customer_id = $1)`, id).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("checking customer invoices: %w", err)
	}

	return has, nil
}
