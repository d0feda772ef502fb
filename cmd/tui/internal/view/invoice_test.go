package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
)

func newTestInvoiceModel(kind loan.InvoiceType) InvoiceModel {
	m := NewInvoiceModel(nil, nil, nil, loan.SettlementModeInstallment, time.Second)
	m.input.Type = kind
	m.customer = &customer.Customer{ID: uuid.New(), NIC: "901234567V", Name: "Nimal Perera"}

	return m
}

func TestInvoiceModel_IssuanceForm(t *testing.T) {
	ring := &item.Item{ID: uuid.New(), Description: "Ring", Value: decimal.NewFromInt(1000)}
	chain := &item.Item{ID: uuid.New(), Description: "Chain", Value: decimal.NewFromInt(500)}

	tests := []struct {
		name     string
		selected []uuid.UUID
		rate     string
		override string
		wantSub  string
		wantTot  string
		wantMode loan.TotalMode
	}{
		{name: "Auto", selected: []uuid.UUID{ring.ID}, rate: "5", wantSub: "1000", wantTot: "1050", wantMode: loan.TotalAuto},
		{name: "BothItems", selected: []uuid.UUID{ring.ID, chain.ID}, rate: "10", wantSub: "1500", wantTot: "1650", wantMode: loan.TotalAuto},
		{name: "Override", selected: []uuid.UUID{ring.ID}, rate: "5", override: "2000", wantSub: "1000", wantTot: "2000", wantMode: loan.TotalOverridden},
		{name: "UnparseableRate", selected: []uuid.UUID{chain.ID}, rate: "abc", wantSub: "500", wantTot: "500", wantMode: loan.TotalAuto},
		{name: "Nothing", rate: "5", wantSub: "0", wantTot: "0", wantMode: loan.TotalAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestInvoiceModel(loan.InvoiceIssuance)
			m.items = []*item.Item{ring, chain}
			m.input.Items = tt.selected
			m.input.Rate = tt.rate
			m.input.Override = tt.override

			form := m.issuanceForm()

			assert.Equal(t, tt.wantSub, form.SubTotal().String())
			assert.Equal(t, tt.wantTot, form.Total().String())
			assert.Equal(t, tt.wantMode, form.Mode())
		})
	}
}

func TestInvoiceModel_IssuanceDraft(t *testing.T) {
	m := newTestInvoiceModel(loan.InvoiceIssuance)
	id := uuid.New()
	m.input.Items = []uuid.UUID{id}
	m.input.Rate = " 4.5 "
	m.input.Period = "6"

	d, err := m.issuanceDraft()
	require.NoError(t, err)

	assert.Equal(t, loan.InvoiceIssuance, d.Type)
	assert.Equal(t, m.customer.ID, d.CustomerID)
	assert.Equal(t, []uuid.UUID{id}, d.ItemIDs)
	assert.Equal(t, "4.5", d.InterestRate.String())
	assert.Equal(t, 6, d.LoanPeriod)
	assert.Nil(t, d.TotalOverride)

	m.input.Override = "900"
	d, err = m.issuanceDraft()
	require.NoError(t, err)
	require.NotNil(t, d.TotalOverride)
	assert.Equal(t, "900", d.TotalOverride.String())

	m.input.Period = "six"
	_, err = m.issuanceDraft()
	assert.Error(t, err)
}

func loanState(paid, period int, settled bool) *invoice.LoanState {
	return &invoice.LoanState{
		OriginID: uuid.New(),
		Number:   "INV-000007",
		Origin: loan.Origin{
			InvoiceType:      loan.InvoiceIssuance,
			TotalAmount:      decimal.NewFromInt(1200),
			LoanPeriod:       period,
			InstallmentsPaid: paid,
			Settled:          settled,
		},
	}
}

func TestInvoiceModel_StaleOriginLookupIgnored(t *testing.T) {
	m := newTestInvoiceModel(loan.InvoiceInstallment)
	m.state = invoiceStateOrigin
	m.repayment = loan.NewRepaymentForm(loan.InvoiceInstallment, loan.SettlementModeInstallment)
	m.lookupActive = true

	stale := m.tracker.Begin(originLookupKey)
	current := m.tracker.Begin(originLookupKey)

	next, _ := m.Update(originLookupMsg{ticket: stale, state: loanState(3, 12, false), current: true})
	got := next.(InvoiceModel)

	assert.Nil(t, got.loanState)
	assert.True(t, got.lookupActive)

	next, _ = got.Update(originLookupMsg{ticket: current, state: loanState(3, 12, false), current: true})
	got = next.(InvoiceModel)

	require.NotNil(t, got.loanState)
	assert.False(t, got.lookupActive)
	assert.Equal(t, 4, got.repayment.InstallmentNumber())
	assert.Equal(t, "100", got.repayment.Amount().String())
	assert.NoError(t, got.repayment.Validate())
}

func TestInvoiceModel_OriginRejected(t *testing.T) {
	tests := []struct {
		name    string
		state   *invoice.LoanState
		wantErr error
	}{
		{name: "Settled", state: loanState(2, 12, true), wantErr: loan.ErrLoanSettled},
		{name: "Exhausted", state: loanState(12, 12, false), wantErr: loan.ErrInstallmentsExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestInvoiceModel(loan.InvoiceInstallment)
			m.state = invoiceStateOrigin
			m.repayment = loan.NewRepaymentForm(loan.InvoiceInstallment, loan.SettlementModeInstallment)

			ticket := m.tracker.Begin(originLookupKey)
			next, _ := m.Update(originLookupMsg{ticket: ticket, state: tt.state, current: true})
			got := next.(InvoiceModel)

			assert.ErrorIs(t, got.lookupErr, tt.wantErr)
			assert.Nil(t, got.loanState)
			assert.Zero(t, got.repayment.InstallmentNumber())
			assert.Error(t, got.repayment.Validate())
		})
	}
}
