package pricing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("price not found")
	ErrDuplicate = errors.New("a price is already set for this karat and loan period")
	ErrInvalid   = errors.New("invalid price")
)

type Karat struct {
	ID   int
	Name string
}

type LoanPeriod struct {
	ID     int
	Months int
}

// Pricing is the value per unit of gold weight lent for one karat over one loan period.
type Pricing struct {
	ID           uuid.UUID
	KaratID      int
	KaratName    string // Loaded via JOIN
	LoanPeriodID int
	Months       int // Loaded via JOIN
	Price        decimal.Decimal
	UpdatedAt    time.Time
}

// Proposal is a suggested item value. The counter may still type in another one.
type Proposal struct {
	Pricing    *Pricing
	GoldWeight decimal.Decimal
	Value      decimal.Decimal
}
