// Package report partitions the transaction ledger into the buckets shown on the
// transaction report and its exports.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

// Row is one transaction as it appears on a report.
type Row struct {
	Date           time.Time
	Type           transaction.Type
	InvoiceNumber  string
	CustomerNIC    string
	SubTotal       decimal.Decimal
	InterestAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Basis is the row amount a bucket total sums.
type Basis int

const (
	BasisTotal Basis = iota
	BasisSubTotal
)

func (b Basis) Label() string {
	if b == BasisSubTotal {
		return "Sub total"
	}

	return "Total"
}

type Bucket struct {
	Rows  []Row
	Total decimal.Decimal
	Basis Basis
}

// Classification is the report for [From, To). A zero bound is open.
type Classification struct {
	From        time.Time
	To          time.Time
	All         []Row
	Issuance    Bucket
	Installment Bucket
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}

	if !to.IsZero() && !t.Before(to) {
		return false
	}

	return true
}

func toRow(tx *transaction.Transaction) Row {
	return Row{
		Date:           tx.CreatedAt,
		Type:           tx.Type,
		InvoiceNumber:  tx.InvoiceNumber,
		CustomerNIC:    tx.CustomerNIC,
		SubTotal:       tx.SubTotal,
		InterestAmount: tx.InterestAmount,
		TotalAmount:    tx.TotalAmount,
	}
}

// Classify builds a fresh Classification from txs. The issuance bucket totals subTotal
// as is; the installment bucket totals totalAmount rounded up to a whole unit. Interest,
// late fee and closure transactions appear only in All.
func Classify(txs []*transaction.Transaction, from, to time.Time) Classification {
	c := Classification{
		From:        from,
		To:          to,
		All:         []Row{},
		Issuance:    Bucket{Rows: []Row{}, Total: decimal.Zero, Basis: BasisSubTotal},
		Installment: Bucket{Rows: []Row{}, Total: decimal.Zero, Basis: BasisTotal},
	}

	installmentSum := decimal.Zero

	for _, tx := range txs {
		if !inRange(tx.CreatedAt, from, to) {
			continue
		}

		row := toRow(tx)
		c.All = append(c.All, row)

		switch tx.Type {
		case transaction.TypeLoanIssuance:
			c.Issuance.Rows = append(c.Issuance.Rows, row)
			c.Issuance.Total = c.Issuance.Total.Add(tx.SubTotal)
		case transaction.TypeInstallmentPayment:
			c.Installment.Rows = append(c.Installment.Rows, row)
			installmentSum = installmentSum.Add(tx.TotalAmount)
		}
	}

	c.Installment.Total = installmentSum.Ceil()

	return c
}

type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	txs TransactionLister
}

func NewService(txs TransactionLister) *Service {
	return &Service{txs: txs}
}

// Summarize loads the ledger for [from, to) and classifies it.
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (Classification, error) {
	var filter transaction.ListFilter

	if !from.IsZero() {
		filter.From = &from
	}

	if !to.IsZero() {
		filter.To = &to
	}

	txs, err := s.txs.List(ctx, filter)
	if err != nil {
		return Classification{}, fmt.Errorf("listing transactions: %w", err)
	}

	return Classify(txs, from, to), nil
}
