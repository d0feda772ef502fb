package item_test

import (
	"context"
	"encoding/json"
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

	httpitem "github.com/MrJamesThe3rd/pawnbook/internal/http/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
)

func newRouter(t *testing.T) (http.Handler, *item.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := item.NewMockRepository(ctrl)
	h := httpitem.NewHandler(item.NewService(repo))

	r := chi.NewRouter()
	r.Route("/items", h.Routes)
	r.Route("/customers/{id}/items", h.CustomerRoutes)

	return r, repo
}

func TestCreate(t *testing.T) {
	router, repo := newRouter(t)
	customerID := uuid.New()

	repo.EXPECT().
		CreateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *item.Item) error {
			assert.Equal(t, customerID, it.CustomerID)
			assert.True(t, decimal.RequireFromString("1500.46").Equal(it.Value))
			it.ID = uuid.New()

			return nil
		})

	body := `{"customer_id":"` + customerID.String() + `","description":"Ring","caratage":22,"gold_weight":"4.2","value":"1500.455"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["available"])
	assert.Equal(t, "1500.46", resp["value"])
}

func TestCreate_Invalid(t *testing.T) {
	router, _ := newRouter(t)

	body := `{"customer_id":"` + uuid.NewString() + `","description":"Ring","caratage":30,"gold_weight":"4.2","value":"100"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdate_Linked(t *testing.T) {
	router, repo := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetItem(gomock.Any(), id).Return(&item.Item{ID: id, InvoiceID: new(uuid.New())}, nil)

	body := `{"description":"Chain","caratage":22,"gold_weight":"4.2","value":"100"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/items/"+id.String(), strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListByCustomer_Available(t *testing.T) {
	router, repo := newRouter(t)
	customerID := uuid.New()

	repo.EXPECT().ListItems(gomock.Any(), customerID, true).Return([]*item.Item{{ID: uuid.New(), CustomerID: customerID}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/"+customerID.String()+"/items?available=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}
