package customer

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/pagination"
)

type Handler struct {
	svc *customer.Service
}

func NewHandler(svc *customer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/by-nic/{nic}", h.getByNIC)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type customerRequest struct {
	NIC     string `json:"nic" validate:"required,max=20"`
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=30"`
}

type customerResponse struct {
	ID        uuid.UUID  `json:"id"`
	NIC       string     `json:"nic"`
	Name      string     `json:"name"`
	Address   string     `json:"address,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		NIC:       c.NIC,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, customer.ErrNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case errors.Is(err, customer.ErrInvalid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, customer.ErrDuplicateNIC), errors.Is(err, customer.ErrHasInvoices):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		render.Internal(w, r, err)
	}
}

// list searches NIC and name with q and pages the result.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query())

	customers, total, err := h.svc.List(r.Context(), customer.ListFilter{
		Query:  r.URL.Query().Get("q"),
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	page.Total = total

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	render.JSON(w, http.StatusOK, render.NewPaged(resp, page))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), customer.CreateParams{
		NIC:     req.NIC,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) getByNIC(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetByNIC(r.Context(), chi.URLParam(r, "nic"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req customerRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c := &customer.Customer{
		ID:      id,
		NIC:     req.NIC,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	if err := h.svc.Update(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
