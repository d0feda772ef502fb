package loan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
)

func TestIssuanceForm_Recomputes(t *testing.T) {
	f := loan.NewIssuanceForm(d("5"))
	assert.True(t, f.Total().IsZero())

	f.AddLine(loan.Line{Ref: "ring", Value: d("1000")})
	f.AddLine(loan.Line{Ref: "chain", Value: d("2000")})

	assert.Equal(t, loan.TotalAuto, f.Mode())
	assert.Equal(t, "3000", f.SubTotal().String())
	assert.Equal(t, "3150", f.Total().String())

	require.NoError(t, f.SetInterestRate(d("10")))
	assert.Equal(t, "3300", f.Total().String())
}

func TestIssuanceForm_OverrideLifecycle(t *testing.T) {
	f := loan.NewIssuanceForm(d("5"))
	f.AddLine(loan.Line{Ref: "ring", Value: d("1000")})
	f.AddLine(loan.Line{Ref: "chain", Value: d("2000")})

	require.NoError(t, f.OverrideTotal(d("3100")))
	assert.Equal(t, loan.TotalOverridden, f.Mode())
	assert.Equal(t, "3100", f.Total().String())

	// Rate changes keep the override.
	require.NoError(t, f.SetInterestRate(d("20")))
	assert.Equal(t, "3100", f.Total().String())
	assert.Equal(t, "3000", f.SubTotal().String())

	res, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, "3100", res.TotalAmount.String())
	assert.Equal(t, "100", res.Interest.String())

	// Item list changes drop it.
	f.AddLine(loan.Line{Ref: "bangle", Value: d("1000")})
	assert.Equal(t, loan.TotalAuto, f.Mode())
	assert.Equal(t, "4800", f.Total().String())

	require.NoError(t, f.OverrideTotal(d("4000")))
	require.NoError(t, f.RemoveLine(2))
	assert.Equal(t, loan.TotalAuto, f.Mode())
	assert.Equal(t, "3600", f.Total().String())

	require.NoError(t, f.OverrideTotal(d("1")))
	f.ResetTotal()
	assert.Equal(t, loan.TotalAuto, f.Mode())
	assert.Equal(t, "3600", f.Total().String())
}

func TestIssuanceForm_RemoveLastLineRejected(t *testing.T) {
	f := loan.NewIssuanceForm(d("5"))
	f.AddLine(loan.Line{Ref: "ring", Value: d("1000")})

	err := f.RemoveLine(0)
	assert.ErrorIs(t, err, loan.ErrLastItem)
	assert.Len(t, f.Lines(), 1)
	assert.Equal(t, "1050", f.Total().String())

	assert.ErrorIs(t, f.RemoveLine(3), loan.ErrItemIndex)
}

func TestIssuanceForm_RemoveKeepsOrder(t *testing.T) {
	f := loan.NewIssuanceForm(d("0"))
	f.AddLine(loan.Line{Ref: "a", Value: d("1")})
	f.AddLine(loan.Line{Ref: "b", Value: d("2")})
	f.AddLine(loan.Line{Ref: "c", Value: d("3")})

	require.NoError(t, f.RemoveLine(1))

	lines := f.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Ref)
	assert.Equal(t, "c", lines[1].Ref)
	assert.Equal(t, "4", f.SubTotal().String())
}

func TestIssuanceForm_Rejections(t *testing.T) {
	f := loan.NewIssuanceForm(d("5"))

	_, err := f.Result()
	assert.ErrorIs(t, err, loan.ErrNoItems)

	assert.ErrorIs(t, f.SetInterestRate(d("-3")), loan.ErrNegativeInterestRate)
	assert.Equal(t, "5", f.InterestRate().String())

	assert.ErrorIs(t, f.OverrideTotal(d("-1")), loan.ErrNegativeTotal)
	assert.Equal(t, loan.TotalAuto, f.Mode())
}

func TestRepaymentForm_Installment(t *testing.T) {
	f := loan.NewRepaymentForm(loan.InvoiceInstallment, loan.SettlementModeInstallment)

	assert.ErrorIs(t, f.Validate(), loan.ErrNoInstallmentSelected)

	require.NoError(t, f.Select(loan.Origin{
		InvoiceType:      loan.InvoiceIssuance,
		TotalAmount:      d("12000"),
		LoanPeriod:       12,
		InstallmentsPaid: 3,
	}))
	assert.Equal(t, "1000", f.Amount().String())
	assert.Equal(t, 4, f.InstallmentNumber())
	assert.NoError(t, f.Validate())

	o, ok := f.Origin()
	assert.True(t, ok)
	assert.Equal(t, 12, o.LoanPeriod)
}

func TestRepaymentForm_InvalidSelectionClears(t *testing.T) {
	origins := map[string]loan.Origin{
		"NotIssuance": {InvoiceType: loan.InvoiceSettlement, TotalAmount: d("100"), LoanPeriod: 1},
		"Settled":     {InvoiceType: loan.InvoiceIssuance, TotalAmount: d("100"), LoanPeriod: 1, Settled: true},
		"ZeroPeriod":  {InvoiceType: loan.InvoiceIssuance, TotalAmount: d("100")},
	}

	for name, bad := range origins {
		t.Run(name, func(t *testing.T) {
			f := loan.NewRepaymentForm(loan.InvoiceInstallment, loan.SettlementModeInstallment)
			require.NoError(t, f.Select(loan.Origin{
				InvoiceType: loan.InvoiceIssuance,
				TotalAmount: d("600"),
				LoanPeriod:  6,
			}))

			err := f.Select(bad)
			assert.Error(t, err)
			assert.True(t, loan.IsValidation(err))
			assert.True(t, f.Amount().IsZero())
			assert.Zero(t, f.InstallmentNumber())

			_, ok := f.Origin()
			assert.False(t, ok)
			assert.ErrorIs(t, f.Validate(), loan.ErrNoInstallmentSelected)
		})
	}
}

func TestRepaymentForm_Settlement(t *testing.T) {
	origin := loan.Origin{
		InvoiceType:      loan.InvoiceIssuance,
		TotalAmount:      d("12000"),
		LoanPeriod:       12,
		InstallmentsPaid: 3,
	}

	f := loan.NewRepaymentForm(loan.InvoiceSettlement, loan.SettlementModeInstallment)
	require.NoError(t, f.Select(origin))
	assert.Equal(t, "1000", f.Amount().String())
	assert.Equal(t, loan.InvoiceSettlement, f.Kind())

	f = loan.NewRepaymentForm(loan.InvoiceSettlement, loan.SettlementModeOutstanding)
	require.NoError(t, f.Select(origin))
	assert.Equal(t, "9000", f.Amount().String())
}
