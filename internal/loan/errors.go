package loan

import (
	"errors"
	"fmt"
)

var (
	ErrNoItems               = errors.New("invoice must contain at least one item")
	ErrLastItem              = errors.New("cannot remove the last item of an invoice")
	ErrItemIndex             = errors.New("item index out of range")
	ErrNegativeInterestRate  = errors.New("interest rate cannot be negative")
	ErrNegativeTotal         = errors.New("total amount cannot be negative")
	ErrNotIssuance           = errors.New("selected invoice is not an issuance invoice")
	ErrLoanSettled           = errors.New("loan is already settled")
	ErrInvalidLoanPeriod     = errors.New("loan period must be greater than zero")
	ErrInstallmentsExhausted = errors.New("all installments of this loan are already paid")
	ErrNoInstallmentSelected = errors.New("no installment selected")
)

// ValidationError is a user-facing rejection. Err is always one of the sentinels above.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}

	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func reject(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Details: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation rejection rather than an infrastructure failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
