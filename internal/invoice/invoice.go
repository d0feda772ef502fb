package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrHasDependents = errors.New("invoice has later invoices recorded against it")

	ErrInvalidType         = errors.New("unknown invoice type")
	ErrCustomerRequired    = errors.New("customer is required")
	ErrOriginRequired      = errors.New("an originating issuance invoice is required")
	ErrCustomerMismatch    = errors.New("originating invoice belongs to another customer")
	ErrItemOwner           = errors.New("item belongs to another customer")
	ErrItemsUnavailable    = errors.New("one or more items are already on an invoice")
	ErrInstallmentMismatch = errors.New("installment number does not match the next installment due")
)

// PaymentStatus tracks an invoice through the loan lifecycle. Issuance invoices stay open
// until settled; installment and settlement invoices are paid at the counter.
type PaymentStatus string

const (
	StatusOpen    PaymentStatus = "open"
	StatusPaid    PaymentStatus = "paid"
	StatusSettled PaymentStatus = "settled"
)

type Invoice struct {
	ID                uuid.UUID
	Number            string
	Type              loan.InvoiceType
	CustomerID        uuid.UUID
	CustomerNIC       string // Loaded via JOIN
	OriginID          *uuid.UUID
	ItemIDs           []uuid.UUID
	SubTotal          decimal.Decimal
	InterestRate      decimal.Decimal
	TotalAmount       decimal.Decimal
	LoanPeriod        int
	InstallmentNumber int
	PaymentStatus     PaymentStatus
	DateGenerated     time.Time
}

// Draft is everything the counter submits for a new invoice of any type. Issuance drafts
// carry items, a rate and a period; repayment drafts point at their origin.
type Draft struct {
	Type       loan.InvoiceType
	CustomerID uuid.UUID

	ItemIDs       []uuid.UUID
	InterestRate  decimal.Decimal
	LoanPeriod    int
	TotalOverride *decimal.Decimal

	OriginID          *uuid.UUID
	InstallmentNumber int
}

// Quote is the computed money side of a draft.
type Quote struct {
	Type              loan.InvoiceType
	SubTotal          decimal.Decimal
	InterestRate      decimal.Decimal
	Interest          decimal.Decimal
	TotalAmount       decimal.Decimal
	TotalMode         loan.TotalMode
	InstallmentNumber int
}

// LoanState is the current position of a loan, read from its issuance invoice.
type LoanState struct {
	OriginID   uuid.UUID
	Number     string
	CustomerID uuid.UUID
	Origin     loan.Origin
}

func invalid(err error, details string) error {
	return &loan.ValidationError{Err: err, Details: details}
}
