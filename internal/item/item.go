package item

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrLinked   = errors.New("item is linked to an invoice and cannot be changed")
	ErrInvalid  = errors.New("invalid item")
)

// Item is a pledged article. It becomes immutable once an issuance invoice links it.
type Item struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Description string
	Caratage    int
	GoldWeight  decimal.Decimal
	Value       decimal.Decimal
	InvoiceID   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (i *Item) Linked() bool {
	return i.InvoiceID != nil
}
