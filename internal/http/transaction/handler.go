package transaction

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/pagination"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(auth.RequireRole(user.RoleAdmin)).Delete("/{id}", h.delete)
}

// list accepts type as a comma separated list of codes, from/to as YYYY-MM-DD and
// customer_id.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("type"); s != "" {
		for _, part := range strings.Split(s, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || !transaction.Type(n).Valid() {
				http.Error(w, "invalid type", http.StatusBadRequest)
				return
			}

			filter.Types = append(filter.Types, transaction.Type(n))
		}
	}

	from, err := render.DateParam(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	to, err := render.DateParam(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !from.IsZero() {
		filter.From = new(from)
	}

	if !to.IsZero() {
		filter.To = new(to)
	}

	if s := q.Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}

		filter.CustomerID = new(id)
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	items, page := pagination.Slice(txs, pagination.FromQuery(q))

	render.JSON(w, http.StatusOK, render.NewPaged(toResponseList(items), page))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		render.Internal(w, r, err)

		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		render.Internal(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
