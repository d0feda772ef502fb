package item

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
)

type Handler struct {
	svc *item.Service
}

func NewHandler(svc *item.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// CustomerRoutes serves a customer's items under a route carrying the customer as {id}.
func (h *Handler) CustomerRoutes(r chi.Router) {
	r.Get("/", h.listByCustomer)
}

type itemRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id"`
	Description string          `json:"description" validate:"required,max=200"`
	Caratage    int             `json:"caratage" validate:"min=1,max=24"`
	GoldWeight  decimal.Decimal `json:"gold_weight"`
	Value       decimal.Decimal `json:"value"`
}

type itemResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Description string          `json:"description"`
	Caratage    int             `json:"caratage"`
	GoldWeight  decimal.Decimal `json:"gold_weight"`
	Value       decimal.Decimal `json:"value"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toResponse(it *item.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		CustomerID:  it.CustomerID,
		Description: it.Description,
		Caratage:    it.Caratage,
		GoldWeight:  it.GoldWeight,
		Value:       it.Value,
		InvoiceID:   it.InvoiceID,
		Available:   !it.Linked(),
		CreatedAt:   it.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, item.ErrInvalid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, item.ErrLinked):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		render.Internal(w, r, err)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !render.Decode(w, r, &req) {
		return
	}

	it, err := h.svc.Create(r.Context(), item.CreateParams{
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Caratage:    req.Caratage,
		GoldWeight:  req.GoldWeight,
		Value:       req.Value,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(it))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	it, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(it))
}

// listByCustomer lists the customer's items; available=true leaves out pledged ones.
func (h *Handler) listByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	onlyAvailable, _ := strconv.ParseBool(r.URL.Query().Get("available"))

	items, err := h.svc.ListByCustomer(r.Context(), customerID, onlyAvailable)
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = toResponse(it)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req itemRequest
	if !render.Decode(w, r, &req) {
		return
	}

	it := &item.Item{
		ID:          id,
		Description: req.Description,
		Caratage:    req.Caratage,
		GoldWeight:  req.GoldWeight,
		Value:       req.Value,
	}

	if err := h.svc.Update(r.Context(), it); err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(it))
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
