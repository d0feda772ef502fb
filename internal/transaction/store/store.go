package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, type, sub_total, interest_amount, total_amount, customer_id, customer_nic,
// invoice_id, invoice_number, created_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx      transaction.Transaction
		txType  int
		nic     sql.NullString
		invoice sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &txType, &tx.SubTotal, &tx.InterestAmount, &tx.TotalAmount,
		&tx.CustomerID, &nic, &tx.InvoiceID, &invoice, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(txType)
	tx.CustomerNIC = nic.String
	tx.InvoiceNumber = invoice.String

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.type, t.sub_total, t.interest_amount, t.total_amount,
	t.customer_id, c.nic AS customer_nic, t.invoice_id, i.number AS invoice_number, t.created_at
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN customers c ON t.customer_id = c.id
	LEFT JOIN invoices i ON t.invoice_id = i.id
`

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `WHERE TRUE`

	var args []any

	argIdx := 1

	if len(filter.Types) > 0 {
		types := make([]int32, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = int32(t)
		}

		query += fmt.Sprintf(" AND t.type = ANY($%d)", argIdx)

		args = append(args, types)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND t.created_at >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND t.created_at < $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND t.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	query += " ORDER BY t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
