package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	httpauth "github.com/MrJamesThe3rd/pawnbook/internal/http/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

func newRouter(t *testing.T) (http.Handler, *user.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)
	issuer := auth.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)

	r := chi.NewRouter()
	httpauth.NewHandler(user.NewService(repo), issuer).Routes(r)

	return r, repo
}

func clerk(t *testing.T, password string) *user.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &user.User{ID: uuid.New(), Username: "clerk", Name: "Counter Clerk", Role: user.RoleStaff, PasswordHash: string(hash)}
}

func TestLogin_ThenMe(t *testing.T) {
	router, repo := newRouter(t)
	u := clerk(t, "s3cret-pass")

	repo.EXPECT().GetUserByUsername(gomock.Any(), "clerk").Return(u, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":" Clerk ","password":"s3cret-pass"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "staff", login.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, u.ID, me.ID)
	assert.Equal(t, "clerk", me.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().GetUserByUsername(gomock.Any(), "clerk").Return(clerk(t, "s3cret-pass"), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"clerk","password":"guess"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_WithoutToken(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
