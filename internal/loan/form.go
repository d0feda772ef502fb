package loan

import (
	"github.com/shopspring/decimal"
)

// TotalMode says whether a form's total follows its items or was typed in by the user.
type TotalMode int

const (
	TotalAuto TotalMode = iota
	TotalOverridden
)

func (m TotalMode) String() string {
	if m == TotalOverridden {
		return "overridden"
	}

	return "auto"
}

// Line is one pawned item on an issuance form.
type Line struct {
	Ref   string
	Value decimal.Decimal
}

// IssuanceForm is the editable draft of an issuance invoice. The subtotal always follows
// the lines; the total follows them too unless it has been overridden. Changing the line
// list drops the override.
type IssuanceForm struct {
	lines []Line
	rate  decimal.Decimal
	mode  TotalMode

	subTotal decimal.Decimal
	total    decimal.Decimal
}

func NewIssuanceForm(interestRate decimal.Decimal) *IssuanceForm {
	return &IssuanceForm{rate: interestRate}
}

func (f *IssuanceForm) AddLine(l Line) {
	f.lines = append(f.lines, l)
	f.mode = TotalAuto
	f.recompute()
}

// RemoveLine drops the line at i. The last remaining line cannot be removed.
func (f *IssuanceForm) RemoveLine(i int) error {
	if i < 0 || i >= len(f.lines) {
		return reject(ErrItemIndex, "index %d, %d items", i, len(f.lines))
	}

	if len(f.lines) == 1 {
		return &ValidationError{Err: ErrLastItem}
	}

	f.lines = append(f.lines[:i:i], f.lines[i+1:]...)
	f.mode = TotalAuto
	f.recompute()

	return nil
}

func (f *IssuanceForm) SetInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return reject(ErrNegativeInterestRate, "got %s", rate)
	}

	f.rate = rate
	f.recompute()

	return nil
}

// OverrideTotal pins the total to amount until the line list changes or ResetTotal is called.
func (f *IssuanceForm) OverrideTotal(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return reject(ErrNegativeTotal, "got %s", amount)
	}

	f.mode = TotalOverridden
	f.total = amount

	return nil
}

func (f *IssuanceForm) ResetTotal() {
	f.mode = TotalAuto
	f.recompute()
}

func (f *IssuanceForm) recompute() {
	values := f.values()
	if len(values) == 0 {
		f.subTotal = decimal.Zero
		if f.mode == TotalAuto {
			f.total = decimal.Zero
		}

		return
	}

	f.subTotal = decimal.Sum(decimal.Zero, values...)

	if f.mode == TotalAuto {
		f.total = f.subTotal.Add(f.subTotal.Mul(f.rate).Div(hundred))
	}
}

func (f *IssuanceForm) values() []decimal.Decimal {
	values := make([]decimal.Decimal, len(f.lines))
	for i, l := range f.lines {
		values[i] = l.Value
	}

	return values
}

func (f *IssuanceForm) Lines() []Line {
	return append([]Line(nil), f.lines...)
}

func (f *IssuanceForm) Mode() TotalMode               { return f.mode }
func (f *IssuanceForm) InterestRate() decimal.Decimal { return f.rate }
func (f *IssuanceForm) SubTotal() decimal.Decimal     { return f.subTotal }
func (f *IssuanceForm) Total() decimal.Decimal        { return f.total }

// Result validates the form for submission.
func (f *IssuanceForm) Result() (Issuance, error) {
	iss, err := CalculateIssuance(f.values(), f.rate)
	if err != nil {
		return Issuance{}, err
	}

	if f.mode == TotalOverridden {
		iss.TotalAmount = f.total
		iss.Interest = f.total.Sub(iss.SubTotal)
	}

	return iss, nil
}

// RepaymentForm is the shared draft for installment and settlement invoices. Both select an
// originating issuance invoice and get an amount and an installment number back.
type RepaymentForm struct {
	kind InvoiceType
	mode SettlementMode

	origin *Origin
	amount decimal.Decimal
	number int
}

// NewRepaymentForm builds a form for kind, which must be InvoiceInstallment or
// InvoiceSettlement. mode only matters for settlements.
func NewRepaymentForm(kind InvoiceType, mode SettlementMode) *RepaymentForm {
	return &RepaymentForm{kind: kind, mode: mode}
}

// Select computes the repayment for o. A rejected selection clears every computed field.
func (f *RepaymentForm) Select(o Origin) error {
	var (
		amount decimal.Decimal
		number int
		err    error
	)

	switch f.kind {
	case InvoiceSettlement:
		var s Settlement
		s, err = CalculateSettlement(o, f.mode)
		amount, number = s.Amount, s.Number
	default:
		var in Installment
		in, err = CalculateInstallment(o)
		amount, number = in.Amount, in.Number
	}

	if err != nil {
		f.Clear()
		return err
	}

	f.origin = &o
	f.amount = amount
	f.number = number

	return nil
}

func (f *RepaymentForm) Clear() {
	f.origin = nil
	f.amount = decimal.Zero
	f.number = 0
}

func (f *RepaymentForm) Kind() InvoiceType       { return f.kind }
func (f *RepaymentForm) Amount() decimal.Decimal { return f.amount }
func (f *RepaymentForm) InstallmentNumber() int  { return f.number }
func (f *RepaymentForm) Origin() (Origin, bool) {
	if f.origin == nil {
		return Origin{}, false
	}

	return *f.origin, true
}

// Validate is the submit gate. A zero installment number means nothing was selected.
func (f *RepaymentForm) Validate() error {
	return ValidateInstallmentNumber(f.number)
}

// ValidateInstallmentNumber rejects the zero installment number.
func ValidateInstallmentNumber(n int) error {
	if n == 0 {
		return &ValidationError{Err: ErrNoInstallmentSelected}
	}

	return nil
}
