// Package loan holds the gold-loan lifecycle arithmetic: issuing a loan against pawned
// items, paying it back in installments and settling it.
//
// Everything here is pure. Callers load the originating invoice, hand its figures over as an
// Origin and persist whatever comes back.
package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvoiceType is the lifecycle step an invoice records.
type InvoiceType int

const (
	InvoiceIssuance    InvoiceType = 1
	InvoiceInstallment InvoiceType = 2
	InvoiceSettlement  InvoiceType = 3
)

func (t InvoiceType) String() string {
	switch t {
	case InvoiceIssuance:
		return "issuance"
	case InvoiceInstallment:
		return "installment"
	case InvoiceSettlement:
		return "settlement"
	}

	return fmt.Sprintf("invoice_type(%d)", int(t))
}

func (t InvoiceType) Valid() bool {
	return t >= InvoiceIssuance && t <= InvoiceSettlement
}

var hundred = decimal.NewFromInt(100)

// Issuance is the computed money side of a new loan.
type Issuance struct {
	SubTotal     decimal.Decimal
	InterestRate decimal.Decimal
	Interest     decimal.Decimal
	TotalAmount  decimal.Decimal
}

// CalculateIssuance sums the pawned item values and adds interestRate percent on top.
func CalculateIssuance(values []decimal.Decimal, interestRate decimal.Decimal) (Issuance, error) {
	if len(values) == 0 {
		return Issuance{}, &ValidationError{Err: ErrNoItems}
	}

	if interestRate.IsNegative() {
		return Issuance{}, reject(ErrNegativeInterestRate, "got %s", interestRate)
	}

	subTotal := decimal.Sum(decimal.Zero, values...)
	interest := subTotal.Mul(interestRate).Div(hundred)

	return Issuance{
		SubTotal:     subTotal,
		InterestRate: interestRate,
		Interest:     interest,
		TotalAmount:  subTotal.Add(interest),
	}, nil
}

// Origin is the originating issuance invoice a repayment is computed against.
type Origin struct {
	InvoiceType      InvoiceType
	TotalAmount      decimal.Decimal
	LoanPeriod       int
	InstallmentsPaid int
	// PaidAmount is the sum recorded on the paid installment invoices. Left zero, it is
	// derived from InstallmentsPaid at cent precision.
	PaidAmount decimal.Decimal
	Settled    bool
}

func (o Origin) check() error {
	if o.InvoiceType != InvoiceIssuance {
		return reject(ErrNotIssuance, "got %s", o.InvoiceType)
	}

	if o.Settled {
		return &ValidationError{Err: ErrLoanSettled}
	}

	if o.LoanPeriod <= 0 {
		return reject(ErrInvalidLoanPeriod, "got %d", o.LoanPeriod)
	}

	return nil
}

func (o Origin) installmentAmount() decimal.Decimal {
	return o.TotalAmount.Div(decimal.NewFromInt(int64(o.LoanPeriod)))
}

func (o Origin) paid() decimal.Decimal {
	if !o.PaidAmount.IsZero() || o.InstallmentsPaid == 0 {
		return o.PaidAmount
	}

	return o.installmentAmount().Round(2).Mul(decimal.NewFromInt(int64(o.InstallmentsPaid)))
}

// outstanding is the part of the total not covered by paid installments, never negative.
func (o Origin) outstanding() decimal.Decimal {
	rest := o.TotalAmount.Sub(o.paid())
	if rest.IsNegative() {
		return decimal.Zero
	}

	return rest
}

// Installment is the next installment due on a loan.
type Installment struct {
	Amount decimal.Decimal
	Number int
}

// CalculateInstallment splits the loan total evenly over its period. Number is the
// installment being paid now, one past those already paid. The final installment takes
// whatever the earlier, cent-rounded ones left over.
func CalculateInstallment(o Origin) (Installment, error) {
	if err := o.check(); err != nil {
		return Installment{}, err
	}

	number := o.InstallmentsPaid + 1
	if number == o.LoanPeriod {
		return Installment{Amount: o.outstanding(), Number: number}, nil
	}

	return Installment{
		Amount: o.installmentAmount(),
		Number: number,
	}, nil
}

// SettlementMode picks how a payoff amount is derived.
type SettlementMode string

const (
	// SettlementModeInstallment charges one installment's worth: totalAmount / loanPeriod.
	// It matches the amounts already issued by the counter and is the default.
	SettlementModeInstallment SettlementMode = "installment"
	// SettlementModeOutstanding charges everything not yet covered by paid installments.
	SettlementModeOutstanding SettlementMode = "outstanding"
)

// Settlement is the single payoff that closes a loan.
type Settlement struct {
	Amount decimal.Decimal
	Number int
	Mode   SettlementMode
}

// CalculateSettlement computes the payoff under mode. An unknown mode falls back to
// SettlementModeInstallment.
func CalculateSettlement(o Origin, mode SettlementMode) (Settlement, error) {
	if err := o.check(); err != nil {
		return Settlement{}, err
	}

	per := o.installmentAmount()

	if mode != SettlementModeOutstanding {
		return Settlement{Amount: per, Number: o.InstallmentsPaid + 1, Mode: SettlementModeInstallment}, nil
	}

	return Settlement{Amount: o.outstanding(), Number: o.InstallmentsPaid + 1, Mode: SettlementModeOutstanding}, nil
}
