package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	apihttp "github.com/MrJamesThe3rd/pawnbook/internal/http"
	httpauth "github.com/MrJamesThe3rd/pawnbook/internal/http/auth"
	httpcustomer "github.com/MrJamesThe3rd/pawnbook/internal/http/customer"
	httpexport "github.com/MrJamesThe3rd/pawnbook/internal/http/export"
	httpinvoice "github.com/MrJamesThe3rd/pawnbook/internal/http/invoice"
	httpitem "github.com/MrJamesThe3rd/pawnbook/internal/http/item"
	httppricing "github.com/MrJamesThe3rd/pawnbook/internal/http/pricing"
	httptx "github.com/MrJamesThe3rd/pawnbook/internal/http/transaction"
	httpuser "github.com/MrJamesThe3rd/pawnbook/internal/http/user"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

type fixture struct {
	router    http.Handler
	issuer    *auth.Issuer
	users     *user.MockRepository
	customers *customer.MockRepository
	items     *item.MockRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		issuer:    auth.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour),
		users:     user.NewMockRepository(ctrl),
		customers: customer.NewMockRepository(ctrl),
		items:     item.NewMockRepository(ctrl),
	}

	userSvc := user.NewService(f.users)
	itemSvc := item.NewService(f.items)

	f.router = apihttp.New(apihttp.Handlers{
		Auth:         httpauth.NewHandler(userSvc, f.issuer),
		Users:        httpuser.NewHandler(userSvc),
		Customers:    httpcustomer.NewHandler(customer.NewService(f.customers)),
		Items:        httpitem.NewHandler(itemSvc),
		Invoices:     httpinvoice.NewHandler(nil),
		Transactions: httptx.NewHandler(nil),
		Reports:      httpexport.NewHandler(nil, nil),
		Pricing:      httppricing.NewHandler(nil),
	}, f.issuer, []string{"http://localhost:4200"})

	return f
}

func (f *fixture) token(t *testing.T, role user.Role) string {
	t.Helper()

	token, _, err := f.issuer.Issue(&user.User{ID: uuid.New(), Username: "clerk", Role: role})
	require.NoError(t, err)

	return token
}

func (f *fixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodGet, "/healthz", "", "").Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/api/v1/customers", "/api/v1/invoices", "/api/v1/transactions", "/api/v1/reports/transactions", "/api/v1/pricing"} {
		assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, target, "", "").Code, target)
	}

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/customers", "not-a-token", "").Code)
}

func TestRouter_LoginIsPublic(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().GetUserByUsername(gomock.Any(), "nobody").Return(nil, user.ErrNotFound)

	rec := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"username":"nobody","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ErrInvalidCredentials.Error())
}

func TestRouter_UsersAdminOnly(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/v1/users", f.token(t, user.RoleStaff), "").Code)

	f.users.EXPECT().ListUsers(gomock.Any()).Return([]*user.User{}, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/users", f.token(t, user.RoleAdmin), "").Code)
}

func TestRouter_CustomerSubroutes(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.customers.EXPECT().GetCustomer(gomock.Any(), id).Return(&customer.Customer{ID: id, NIC: "901234567V"}, nil)
	f.items.EXPECT().ListItems(gomock.Any(), id, false).Return([]*item.Item{}, nil)

	token := f.token(t, user.RoleStaff)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/customers/"+id.String(), token, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/customers/"+id.String()+"/items", token, "").Code)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader("nic=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+f.token(t, user.RoleStaff))

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
