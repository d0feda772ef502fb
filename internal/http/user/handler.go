package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

type createUserRequest struct {
	Username string    `json:"username" validate:"required,max=64"`
	Name     string    `json:"name" validate:"max=200"`
	Role     user.Role `json:"role" validate:"required,oneof=admin staff"`
	Password string    `json:"password" validate:"required"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toResponse(u)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !render.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.Create(r.Context(), user.CreateParams{
		Username: req.Username,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalid):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, user.ErrDuplicateUsername):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.Internal(w, r, err)
		}

		return
	}

	render.JSON(w, http.StatusCreated, toResponse(u))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, user.ErrLastAdmin):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			render.Internal(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
