package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

type Handler struct {
	users  *user.Service
	issuer *auth.Issuer
}

func NewHandler(users *user.Service, issuer *auth.Issuer) *Handler {
	return &Handler{users: users, issuer: issuer}
}

// Routes mounts the login endpoint unauthenticated and everything else behind the token
// middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.With(auth.Middleware(h.issuer)).Get("/me", h.me)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name,omitempty"`
	Role     user.Role `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !render.Decode(w, r, &req) {
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		render.Internal(w, r, err)

		return
	}

	token, expires, err := h.issuer.Issue(u)
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expires,
		User:      userResponse{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role},
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	render.JSON(w, http.StatusOK, userResponse{ID: claims.UserID, Username: claims.Username, Role: claims.Role})
}
