package invoice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	repo  *invoice.MockRepository
	itx   *invoice.MockCreateTx
	items *invoice.MockItemGetter
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	return &fixture{
		repo:  invoice.NewMockRepository(ctrl),
		itx:   invoice.NewMockCreateTx(ctrl),
		items: invoice.NewMockItemGetter(ctrl),
	}
}

func (f *fixture) service(mode loan.SettlementMode) *invoice.Service {
	return invoice.NewService(f.repo, f.items, mode)
}

// expectInsert stubs the common write path and captures the recorded ledger entry.
func (f *fixture) expectInsert(got **transaction.Transaction) {
	f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.itx, nil)
	f.itx.EXPECT().NextNumber(gomock.Any()).Return("INV-000042", nil)
	f.itx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			return nil
		})
	f.itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			*got = tx
			return nil
		})
	f.itx.EXPECT().Commit().Return(nil)
	f.itx.EXPECT().Rollback().Return(nil).AnyTimes()
}

func TestService_Create_Issuance(t *testing.T) {
	customerID := uuid.New()
	a := &item.Item{ID: uuid.New(), CustomerID: customerID, Value: dec("1000")}
	b := &item.Item{ID: uuid.New(), CustomerID: customerID, Value: dec("2000")}

	tests := []struct {
		name         string
		override     *decimal.Decimal
		wantTotal    string
		wantInterest string
	}{
		{name: "AutoTotal", wantTotal: "3150", wantInterest: "150"},
		{name: "OverriddenTotal", override: new(dec("3200")), wantTotal: "3200", wantInterest: "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var recorded *transaction.Transaction

			f.items.EXPECT().GetMany(gomock.Any(), []uuid.UUID{a.ID, b.ID}).Return([]*item.Item{a, b}, nil)
			f.expectInsert(&recorded)
			f.itx.EXPECT().LinkItems(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
					assert.Equal(t, []uuid.UUID{a.ID, b.ID}, inv.ItemIDs)
					return nil
				})

			inv, err := f.service(loan.SettlementModeInstallment).Create(context.Background(), invoice.Draft{
				Type:          loan.InvoiceIssuance,
				CustomerID:    customerID,
				ItemIDs:       []uuid.UUID{a.ID, b.ID, a.ID},
				InterestRate:  dec("5"),
				LoanPeriod:    12,
				TotalOverride: tt.override,
			})
			require.NoError(t, err)

			assert.Equal(t, "INV-000042", inv.Number)
			assert.Equal(t, invoice.StatusOpen, inv.PaymentStatus)
			assert.True(t, inv.SubTotal.Equal(dec("3000")))
			assert.True(t, inv.TotalAmount.Equal(dec(tt.wantTotal)), "total %s", inv.TotalAmount)

			require.NotNil(t, recorded)
			assert.Equal(t, transaction.TypeLoanIssuance, recorded.Type)
			assert.Equal(t, inv.ID, recorded.InvoiceID)
			assert.True(t, recorded.InterestAmount.Equal(dec(tt.wantInterest)))
		})
	}
}

func TestService_Create_IssuanceRejected(t *testing.T) {
	customerID := uuid.New()
	linkedTo := uuid.New()

	tests := []struct {
		name      string
		draft     invoice.Draft
		setupMock func(f *fixture)
		wantErr   error
	}{
		{
			name:      "NoItems",
			draft:     invoice.Draft{Type: loan.InvoiceIssuance, CustomerID: customerID, LoanPeriod: 6},
			setupMock: func(f *fixture) {},
			wantErr:   loan.ErrNoItems,
		},
		{
			name:      "NoLoanPeriod",
			draft:     invoice.Draft{Type: loan.InvoiceIssuance, CustomerID: customerID, ItemIDs: []uuid.UUID{uuid.New()}},
			setupMock: func(f *fixture) {},
			wantErr:   loan.ErrInvalidLoanPeriod,
		},
		{
			name:      "NoCustomer",
			draft:     invoice.Draft{Type: loan.InvoiceIssuance, ItemIDs: []uuid.UUID{uuid.New()}, LoanPeriod: 6},
			setupMock: func(f *fixture) {},
			wantErr:   invoice.ErrCustomerRequired,
		},
		{
			name:  "ForeignItem",
			draft: invoice.Draft{Type: loan.InvoiceIssuance, CustomerID: customerID, ItemIDs: []uuid.UUID{uuid.New()}, LoanPeriod: 6},
			setupMock: func(f *fixture) {
				f.items.EXPECT().GetMany(gomock.Any(), gomock.Any()).
					Return([]*item.Item{{ID: uuid.New(), CustomerID: uuid.New(), Value: dec("10")}}, nil)
			},
			wantErr: invoice.ErrItemOwner,
		},
		{
			name:  "LinkedItem",
			draft: invoice.Draft{Type: loan.InvoiceIssuance, CustomerID: customerID, ItemIDs: []uuid.UUID{uuid.New()}, LoanPeriod: 6},
			setupMock: func(f *fixture) {
				f.items.EXPECT().GetMany(gomock.Any(), gomock.Any()).
					Return([]*item.Item{{ID: uuid.New(), CustomerID: customerID, Value: dec("10"), InvoiceID: &linkedTo}}, nil)
			},
			wantErr: invoice.ErrItemsUnavailable,
		},
		{
			name:      "UnknownType",
			draft:     invoice.Draft{Type: loan.InvoiceType(9)},
			setupMock: func(f *fixture) {},
			wantErr:   invoice.ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.service(loan.SettlementModeInstallment).Create(context.Background(), tt.draft)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, loan.IsValidation(err))
		})
	}
}

func loanState(paid int, settled bool) *invoice.LoanState {
	return &invoice.LoanState{
		OriginID:   uuid.New(),
		Number:     "INV-000001",
		CustomerID: uuid.New(),
		Origin: loan.Origin{
			InvoiceType:      loan.InvoiceIssuance,
			TotalAmount:      dec("12000"),
			LoanPeriod:       12,
			InstallmentsPaid: paid,
			Settled:          settled,
		},
	}
}

func TestService_Create_Installment(t *testing.T) {
	f := newFixture(t)
	state := loanState(3, false)

	var recorded *transaction.Transaction

	f.expectInsert(&recorded)
	f.itx.EXPECT().LockLoan(gomock.Any(), state.OriginID).Return(state, nil)

	inv, err := f.service(loan.SettlementModeInstallment).Create(context.Background(), invoice.Draft{
		Type:              loan.InvoiceInstallment,
		OriginID:          &state.OriginID,
		InstallmentNumber: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, inv.InstallmentNumber)
	assert.Equal(t, state.CustomerID, inv.CustomerID)
	assert.Equal(t, invoice.StatusPaid, inv.PaymentStatus)
	assert.True(t, inv.TotalAmount.Equal(dec("1000")))
	assert.Equal(t, transaction.TypeInstallmentPayment, recorded.Type)
	assert.True(t, recorded.TotalAmount.Equal(dec("1000")))
}

func TestService_Create_Settlement(t *testing.T) {
	tests := []struct {
		name       string
		mode       loan.SettlementMode
		wantAmount string
	}{
		{name: "InstallmentMode", mode: loan.SettlementModeInstallment, wantAmount: "1000"},
		{name: "OutstandingMode", mode: loan.SettlementModeOutstanding, wantAmount: "9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			state := loanState(3, false)

			var recorded *transaction.Transaction

			f.expectInsert(&recorded)
			f.itx.EXPECT().LockLoan(gomock.Any(), state.OriginID).Return(state, nil)
			f.itx.EXPECT().SetPaymentStatus(gomock.Any(), state.OriginID, invoice.StatusSettled).Return(nil)

			inv, err := f.service(tt.mode).Create(context.Background(), invoice.Draft{
				Type:              loan.InvoiceSettlement,
				OriginID:          &state.OriginID,
				InstallmentNumber: 4,
			})
			require.NoError(t, err)

			assert.True(t, inv.TotalAmount.Equal(dec(tt.wantAmount)), "amount %s", inv.TotalAmount)
			assert.Equal(t, transaction.TypeLoanClosure, recorded.Type)
		})
	}
}

func TestService_Create_UnevenLoan(t *testing.T) {
	unevenState := func(paid int, paidAmount string) *invoice.LoanState {
		state := loanState(paid, false)
		state.Origin.TotalAmount = dec("100")
		state.Origin.LoanPeriod = 3
		state.Origin.PaidAmount = dec(paidAmount)

		return state
	}

	tests := []struct {
		name       string
		invType    loan.InvoiceType
		mode       loan.SettlementMode
		state      *invoice.LoanState
		wantAmount string
		wantSettle bool
	}{
		{
			name:       "FirstInstallmentRoundedToCents",
			invType:    loan.InvoiceInstallment,
			mode:       loan.SettlementModeInstallment,
			state:      unevenState(0, "0"),
			wantAmount: "33.33",
		},
		{
			name:       "FinalInstallmentSettlesLoan",
			invType:    loan.InvoiceInstallment,
			mode:       loan.SettlementModeInstallment,
			state:      unevenState(2, "66.66"),
			wantAmount: "33.34",
			wantSettle: true,
		},
		{
			name:       "OutstandingSettlement",
			invType:    loan.InvoiceSettlement,
			mode:       loan.SettlementModeOutstanding,
			state:      unevenState(1, "33.33"),
			wantAmount: "66.67",
			wantSettle: true,
		},
		{
			name:       "InstallmentModeSettlement",
			invType:    loan.InvoiceSettlement,
			mode:       loan.SettlementModeInstallment,
			state:      unevenState(1, "33.33"),
			wantAmount: "33.33",
			wantSettle: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var recorded *transaction.Transaction

			f.expectInsert(&recorded)
			f.itx.EXPECT().LockLoan(gomock.Any(), tt.state.OriginID).Return(tt.state, nil)

			if tt.wantSettle {
				f.itx.EXPECT().SetPaymentStatus(gomock.Any(), tt.state.OriginID, invoice.StatusSettled).Return(nil)
			}

			inv, err := f.service(tt.mode).Create(context.Background(), invoice.Draft{
				Type:              tt.invType,
				OriginID:          &tt.state.OriginID,
				InstallmentNumber: tt.state.Origin.InstallmentsPaid + 1,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAmount, inv.TotalAmount.String())
			assert.True(t, recorded.TotalAmount.Equal(inv.TotalAmount))
			assert.True(t, tt.state.Origin.PaidAmount.Add(inv.TotalAmount).LessThanOrEqual(dec("100")))
		})
	}
}

func TestService_Create_RepaymentRejected(t *testing.T) {
	tests := []struct {
		name    string
		state   *invoice.LoanState
		number  int
		wantErr error
	}{
		{name: "Settled", state: loanState(3, true), number: 4, wantErr: loan.ErrLoanSettled},
		{name: "Exhausted", state: loanState(12, false), number: 13, wantErr: loan.ErrInstallmentsExhausted},
		{name: "StaleNumber", state: loanState(3, false), number: 3, wantErr: invoice.ErrInstallmentMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.itx, nil)
			f.itx.EXPECT().LockLoan(gomock.Any(), tt.state.OriginID).Return(tt.state, nil)
			f.itx.EXPECT().Rollback().Return(nil)

			_, err := f.service(loan.SettlementModeInstallment).Create(context.Background(), invoice.Draft{
				Type:              loan.InvoiceInstallment,
				OriginID:          &tt.state.OriginID,
				InstallmentNumber: tt.number,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Create_RepaymentGates(t *testing.T) {
	originID := uuid.New()

	t.Run("NoOrigin", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service(loan.SettlementModeInstallment).Create(context.Background(), invoice.Draft{
			Type:              loan.InvoiceInstallment,
			InstallmentNumber: 1,
		})
		assert.ErrorIs(t, err, invoice.ErrOriginRequired)
	})

	t.Run("NoInstallmentSelected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service(loan.SettlementModeInstallment).Create(context.Background(), invoice.Draft{
			Type:     loan.InvoiceSettlement,
			OriginID: &originID,
		})
		assert.ErrorIs(t, err, loan.ErrNoInstallmentSelected)
	})
}

func TestService_Quote(t *testing.T) {
	f := newFixture(t)
	state := loanState(3, false)

	f.repo.EXPECT().LoanState(gomock.Any(), state.OriginID).Return(state, nil)

	q, err := f.service(loan.SettlementModeInstallment).Quote(context.Background(), invoice.Draft{
		Type:     loan.InvoiceInstallment,
		OriginID: &state.OriginID,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, q.InstallmentNumber)
	assert.True(t, q.TotalAmount.Equal(dec("1000")))
}

func TestService_Quote_CustomerMismatch(t *testing.T) {
	f := newFixture(t)
	state := loanState(0, false)

	f.repo.EXPECT().LoanState(gomock.Any(), state.OriginID).Return(state, nil)

	_, err := f.service(loan.SettlementModeInstallment).Quote(context.Background(), invoice.Draft{
		Type:       loan.InvoiceSettlement,
		CustomerID: uuid.New(),
		OriginID:   &state.OriginID,
	})
	assert.ErrorIs(t, err, invoice.ErrCustomerMismatch)
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("HasDependents", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().HasDependents(gomock.Any(), id).Return(true, nil)

		err := f.service(loan.SettlementModeInstallment).Delete(context.Background(), id)
		assert.ErrorIs(t, err, invoice.ErrHasDependents)
	})

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().HasDependents(gomock.Any(), id).Return(false, nil)
		f.repo.EXPECT().DeleteInvoice(gomock.Any(), id).Return(nil)

		assert.NoError(t, f.service(loan.SettlementModeInstallment).Delete(context.Background(), id))
	})
}
