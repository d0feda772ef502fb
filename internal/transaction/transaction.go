package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Type is the ledger code of a transaction.
type Type int

const (
	TypeLoanIssuance       Type = 1
	TypeInstallmentPayment Type = 2
	TypeInterestPayment    Type = 3
	TypeLateFeePayment     Type = 4
	TypeLoanClosure        Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeLoanIssuance:
		return "loan_issuance"
	case TypeInstallmentPayment:
		return "installment_payment"
	case TypeInterestPayment:
		return "interest_payment"
	case TypeLateFeePayment:
		return "late_fee_payment"
	case TypeLoanClosure:
		return "loan_closure"
	}

	return fmt.Sprintf("type(%d)", int(t))
}

func (t Type) Valid() bool {
	return t >= TypeLoanIssuance && t <= TypeLoanClosure
}

// Transaction is an append-only ledger entry recorded alongside every invoice.
type Transaction struct {
	ID             uuid.UUID
	Type           Type
	SubTotal       decimal.Decimal
	InterestAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	CustomerID     uuid.UUID
	CustomerNIC    string // Loaded via JOIN
	InvoiceID      uuid.UUID
	InvoiceNumber  string // Loaded via JOIN
	CreatedAt      time.Time
}
