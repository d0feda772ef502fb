package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrDuplicateNIC = errors.New("a customer with this NIC already exists")
	ErrHasInvoices  = errors.New("customer has invoices and cannot be deleted")
	ErrInvalid      = errors.New("invalid customer")
)

// Customer is a pawnshop client, identified by their national identity card number.
type Customer struct {
	ID        uuid.UUID
	NIC       string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
