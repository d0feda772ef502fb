package invoice_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	httpinvoice "github.com/MrJamesThe3rd/pawnbook/internal/http/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

type fixture struct {
	router http.Handler
	repo   *invoice.MockRepository
	itx    *invoice.MockCreateTx
	items  *invoice.MockItemGetter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:  invoice.NewMockRepository(ctrl),
		itx:   invoice.NewMockCreateTx(ctrl),
		items: invoice.NewMockItemGetter(ctrl),
	}

	h := httpinvoice.NewHandler(invoice.NewService(f.repo, f.items, loan.SettlementModeInstallment))

	r := chi.NewRouter()
	r.Route("/invoices", h.Routes)
	r.Route("/customers/{id}/invoices", h.CustomerRoutes)
	f.router = r

	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

// loanState is a 12 month loan of 12000 with paid installments already recorded.
func loanState(paid int) *invoice.LoanState {
	return &invoice.LoanState{
		OriginID:   uuid.New(),
		Number:     "INV-000001",
		CustomerID: uuid.New(),
		Origin: loan.Origin{
			InvoiceType:      loan.InvoiceIssuance,
			TotalAmount:      decimal.NewFromInt(12000),
			LoanPeriod:       12,
			InstallmentsPaid: paid,
		},
	}
}

func TestQuote_Issuance(t *testing.T) {
	f := newFixture(t)
	customerID := uuid.New()
	ring := &item.Item{ID: uuid.New(), CustomerID: customerID, Value: decimal.NewFromInt(2000)}
	chain := &item.Item{ID: uuid.New(), CustomerID: customerID, Value: decimal.NewFromInt(1000)}

	f.items.EXPECT().GetMany(gomock.Any(), []uuid.UUID{ring.ID, chain.ID}).Return([]*item.Item{ring, chain}, nil)

	body := fmt.Sprintf(`{"invoice_type":1,"customer_id":%q,"item_ids":[%q,%q,%q],"interest_rate":"5","loan_period":6}`,
		customerID, ring.ID, chain.ID, ring.ID)

	rec := f.do(http.MethodPost, "/invoices/quote", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var q struct {
		SubTotal    string `json:"sub_total"`
		TotalAmount string `json:"total_amount"`
		TotalMode   string `json:"total_mode"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&q))

	assert.Equal(t, "3000", q.SubTotal)
	assert.Equal(t, "3150", q.TotalAmount)
	assert.Equal(t, "auto", q.TotalMode)
}

func TestCreate_Installment(t *testing.T) {
	f := newFixture(t)
	state := loanState(3)

	f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.itx, nil)
	f.itx.EXPECT().LockLoan(gomock.Any(), state.OriginID).Return(state, nil)
	f.itx.EXPECT().NextNumber(gomock.Any()).Return("INV-000042", nil)
	f.itx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			return nil
		})
	f.itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, transaction.TypeInstallmentPayment, tx.Type)
			return nil
		})
	f.itx.EXPECT().Commit().Return(nil)
	f.itx.EXPECT().Rollback().Return(nil).AnyTimes()

	rec := f.do(http.MethodPost, "/invoices",
		fmt.Sprintf(`{"invoice_type":2,"origin_id":%q,"installment_number":4}`, state.OriginID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var inv struct {
		Number            string `json:"invoice_number"`
		TotalAmount       string `json:"total_amount"`
		InstallmentNumber int    `json:"installment_number"`
		PaymentStatus     string `json:"payment_status"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&inv))

	assert.Equal(t, "INV-000042", inv.Number)
	assert.Equal(t, "1000", inv.TotalAmount)
	assert.Equal(t, 4, inv.InstallmentNumber)
	assert.Equal(t, "paid", inv.PaymentStatus)
}

func TestCreate_Rejected(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/invoices", `{"invoice_type":1,"customer_id":"`+uuid.NewString()+`","loan_period":6}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("SettledLoan", func(t *testing.T) {
		f := newFixture(t)
		state := loanState(2)
		state.Origin.Settled = true

		f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.itx, nil)
		f.itx.EXPECT().LockLoan(gomock.Any(), state.OriginID).Return(state, nil)
		f.itx.EXPECT().Rollback().Return(nil)

		rec := f.do(http.MethodPost, "/invoices",
			fmt.Sprintf(`{"invoice_type":3,"origin_id":%q,"installment_number":3}`, state.OriginID))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), loan.ErrLoanSettled.Error())
	})

	t.Run("UnknownItem", func(t *testing.T) {
		f := newFixture(t)
		itemID := uuid.New()

		f.items.EXPECT().GetMany(gomock.Any(), []uuid.UUID{itemID}).Return(nil, item.ErrNotFound)

		rec := f.do(http.MethodPost, "/invoices",
			fmt.Sprintf(`{"invoice_type":1,"customer_id":%q,"item_ids":[%q],"loan_period":6}`, uuid.New(), itemID))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Malformed", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/invoices", `[`).Code)
	})
}

func TestLoanInfo(t *testing.T) {
	f := newFixture(t)
	state := loanState(3)

	f.repo.EXPECT().LoanState(gomock.Any(), state.OriginID).Return(state, nil)

	rec := f.do(http.MethodGet, "/invoices/"+state.OriginID.String()+"/loan-info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info struct {
		InstallmentsPaid  int    `json:"installments_paid"`
		NextInstallment   int    `json:"next_installment"`
		InstallmentAmount string `json:"installment_amount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))

	assert.Equal(t, 3, info.InstallmentsPaid)
	assert.Equal(t, 4, info.NextInstallment)
	assert.Equal(t, "1000", info.InstallmentAmount)
}

func TestList_ByCustomer(t *testing.T) {
	f := newFixture(t)
	customerID := uuid.New()

	f.repo.EXPECT().
		ListInvoices(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, int, error) {
			require.NotNil(t, filter.CustomerID)
			assert.Equal(t, customerID, *filter.CustomerID)
			assert.Equal(t, 5, filter.Limit)

			return []*invoice.Invoice{{ID: uuid.New(), Type: loan.InvoiceIssuance}}, 1, nil
		})

	rec := f.do(http.MethodGet, "/customers/"+customerID.String()+"/invoices?page_size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"showing":"Showing 1–1 of 1"`)
}

func TestList_BadType(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/invoices?type=7", "").Code)
}

func TestDelete_HasDependents(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.repo.EXPECT().HasDependents(gomock.Any(), id).Return(true, nil)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodDelete, "/invoices/"+id.String(), "").Code)
}
