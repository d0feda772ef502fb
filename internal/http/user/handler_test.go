package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	httpuser "github.com/MrJamesThe3rd/pawnbook/internal/http/user"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

func newRouter(t *testing.T) (http.Handler, *user.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)

	r := chi.NewRouter()
	httpuser.NewHandler(user.NewService(repo)).Routes(r)

	return r, repo
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		repoErr error
		want    int
	}{
		{
			name: "Created",
			body: `{"username":"teller","name":"Teller","role":"staff","password":"long-enough"}`,
			want: http.StatusCreated,
		},
		{
			name: "ShortPassword",
			body: `{"username":"teller","name":"Teller","role":"staff","password":"short"}`,
			want: http.StatusUnprocessableEntity,
		},
		{
			name:    "Duplicate",
			body:    `{"username":"teller","name":"Teller","role":"admin","password":"long-enough"}`,
			repoErr: user.ErrDuplicateUsername,
			want:    http.StatusConflict,
		},
		{
			name: "Malformed",
			body: `{`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)

			if tt.want == http.StatusCreated || tt.repoErr != nil {
				repo.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						u.ID = uuid.New()
						return tt.repoErr
					})
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, rec.Code)

			if tt.want == http.StatusCreated {
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestDelete_LastAdmin(t *testing.T) {
	router, repo := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetUser(gomock.Any(), id).Return(&user.User{ID: id, Role: user.RoleAdmin}, nil)
	repo.EXPECT().CountByRole(gomock.Any(), user.RoleAdmin).Return(1, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+id.String(), nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
