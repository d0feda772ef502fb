package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
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

const selectInvoiceColumns = `
	i.id, i.number, i.type, i.customer_id, c.nic AS customer_nic, i.origin_id,
	i.sub_total, i.interest_rate, i.total_amount, i.loan_period, i.installment_number,
	i.payment_status, i.date_generated
`

const fromInvoices = `
	FROM invoices i
	LEFT JOIN customers c ON i.customer_id = c.id
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var (
		inv     invoice.Invoice
		invType int
		nic     sql.NullString
		status  string
	)

	if err := s.Scan(
		&inv.ID, &inv.Number, &invType, &inv.CustomerID, &nic, &inv.OriginID,
		&inv.SubTotal, &inv.InterestRate, &inv.TotalAmount, &inv.LoanPeriod, &inv.InstallmentNumber,
		&status, &inv.DateGenerated,
	); err != nil {
		return nil, err
	}

	inv.Type = loan.InvoiceType(invType)
	inv.CustomerNIC = nic.String
	inv.PaymentStatus = invoice.PaymentStatus(status)

	return &inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + fromInvoices + `WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM items WHERE invoice_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("listing invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID uuid.UUID
		if err := rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("scanning invoice item: %w", err)
		}

		inv.ItemIDs = append(inv.ItemIDs, itemID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice items: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, int, error) {
	where := ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		where += fmt.Sprintf(" AND i.type = $%d", argIdx)

		args = append(args, int(*filter.Type))
		argIdx++
	}

	if filter.CustomerID != nil {
		where += fmt.Sprintf(" AND i.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.OriginID != nil {
		where += fmt.Sprintf(" AND i.origin_id = $%d", argIdx)

		args = append(args, *filter.OriginID)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices i`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting invoices: %w", err)
	}

	query := `SELECT ` + selectInvoiceColumns + fromInvoices + where + ` ORDER BY i.date_generated DESC, i.number DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, total, nil
}

func (s *Store) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	var has bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE origin_id = $1)`, id).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("checking invoice dependents: %w", err)
	}

	return has, nil
}

// DeleteInvoice removes the invoice together with its ledger entry. Deleting a repayment
// reopens its loan unless a settlement invoice still closes it.
func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var (
		invType  int
		originID *uuid.UUID
	)

	err = dbTx.QueryRowContext(ctx, `DELETE FROM invoices WHERE id = $1 RETURNING type, origin_id`, id).
		Scan(&invType, &originID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.ErrNotFound
		}

		return fmt.Errorf("deleting invoice: %w", err)
	}

	if loan.InvoiceType(invType) != loan.InvoiceIssuance && originID != nil {
		if _, err := dbTx.ExecContext(ctx, reopenLoanQuery, string(invoice.StatusOpen), *originID); err != nil {
			return fmt.Errorf("reopening loan: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const reopenLoanQuery = `
	UPDATE invoices SET payment_status = $1
	WHERE id = $2 AND NOT EXISTS (SELECT 1 FROM invoices s WHERE s.origin_id = $2 AND s.type = 3)
`

const loanStateQuery = `
	SELECT i.id, i.number, i.customer_id, i.type, i.total_amount, i.loan_period, i.payment_status,
		(SELECT COUNT(*) FROM invoices p WHERE p.origin_id = i.id AND p.type = 2) AS installments_paid,
		(SELECT COALESCE(SUM(p.total_amount), 0) FROM invoices p WHERE p.origin_id = i.id AND p.type = 2) AS installments_total
	FROM invoices i
	WHERE i.id = $1
`

func scanLoanState(s scanner) (*invoice.LoanState, error) {
	var (
		st      invoice.LoanState
		invType int
		status  string
	)

	err := s.Scan(&st.OriginID, &st.Number, &st.CustomerID, &invType,
		&st.Origin.TotalAmount, &st.Origin.LoanPeriod, &status, &st.Origin.InstallmentsPaid, &st.Origin.PaidAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("loading loan state: %w", err)
	}

	st.Origin.InvoiceType = loan.InvoiceType(invType)
	st.Origin.Settled = invoice.PaymentStatus(status) == invoice.StatusSettled

	return &st, nil
}

func (s *Store) LoanState(ctx context.Context, originID uuid.UUID) (*invoice.LoanState, error) {
	return scanLoanState(s.db.QueryRowContext(ctx, loanStateQuery, originID))
}

type createTx struct {
	tx *sql.Tx
}

func (s *Store) BeginCreate(ctx context.Context) (invoice.CreateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning invoice tx: %w", err)
	}

	return &createTx{tx: dbTx}, nil
}

func (itx *createTx) Commit() error   { return itx.tx.Commit() }
func (itx *createTx) Rollback() error { return itx.tx.Rollback() }

func loanLockKey(originID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("loan"))
	h.Write([]byte{0})
	h.Write(originID[:])

	return int64(h.Sum64())
}

// LockLoan serialises repayments of one loan for the rest of the transaction, then reads
// its state.
func (itx *createTx) LockLoan(ctx context.Context, originID uuid.UUID) (*invoice.LoanState, error) {
	if _, err := itx.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", loanLockKey(originID)); err != nil {
		return nil, fmt.Errorf("acquiring loan lock: %w", err)
	}

	return scanLoanState(itx.tx.QueryRowContext(ctx, loanStateQuery, originID))
}

func (itx *createTx) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := itx.tx.QueryRowContext(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}

	return fmt.Sprintf("INV-%06d", n), nil
}

func (itx *createTx) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			number, type, customer_id, origin_id, sub_total, interest_rate, total_amount,
			loan_period, installment_number, payment_status, date_generated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, date_generated
	`

	err := itx.tx.QueryRowContext(ctx, query,
		inv.Number, int(inv.Type), inv.CustomerID, inv.OriginID, inv.SubTotal, inv.InterestRate,
		inv.TotalAmount, inv.LoanPeriod, inv.InstallmentNumber, string(inv.PaymentStatus),
	).Scan(&inv.ID, &inv.DateGenerated)
	if err != nil {
		return fmt.Errorf("inserting invoice: %w", err)
	}

	return nil
}

// LinkItems claims the invoice's items. Items already claimed by another invoice, or owned
// by another customer, fail the whole invoice.
func (itx *createTx) LinkItems(ctx context.Context, inv *invoice.Invoice) error {
	ids := make([]string, len(inv.ItemIDs))
	for i, id := range inv.ItemIDs {
		ids[i] = id.String()
	}

	query := `
		UPDATE items
		SET invoice_id = $1, updated_at = NOW()
		WHERE id::text = ANY($2) AND customer_id = $3 AND invoice_id IS NULL
	`

	res, err := itx.tx.ExecContext(ctx, query, inv.ID, ids, inv.CustomerID)
	if err != nil {
		return fmt.Errorf("linking items: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("linking items: %w", err)
	}

	if int(n) != len(ids) {
		return invoice.ErrItemsUnavailable
	}

	return nil
}

func (itx *createTx) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (type, sub_total, interest_amount, total_amount, customer_id, invoice_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := itx.tx.QueryRowContext(ctx, query,
		int(t.Type), t.SubTotal, t.InterestAmount, t.TotalAmount, t.CustomerID, t.InvoiceID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	return nil
}

func (itx *createTx) SetPaymentStatus(ctx context.Context, id uuid.UUID, status invoice.PaymentStatus) error {
	res, err := itx.tx.ExecContext(ctx, `UPDATE invoices SET payment_status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}
