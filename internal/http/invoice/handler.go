package invoice

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/pagination"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/quote", h.quote)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/loan-info", h.loanInfo)
}

// CustomerRoutes serves a customer's invoices under a route carrying the customer as {id}.
func (h *Handler) CustomerRoutes(r chi.Router) {
	r.Get("/", h.listByCustomer)
}

type draftRequest struct {
	Type              loan.InvoiceType `json:"invoice_type" validate:"required,oneof=1 2 3"`
	CustomerID        uuid.UUID        `json:"customer_id"`
	ItemIDs           []uuid.UUID      `json:"item_ids"`
	InterestRate      decimal.Decimal  `json:"interest_rate"`
	LoanPeriod        int              `json:"loan_period" validate:"gte=0"`
	TotalOverride     *decimal.Decimal `json:"total_override"`
	OriginID          *uuid.UUID       `json:"origin_id"`
	InstallmentNumber int              `json:"installment_number" validate:"gte=0"`
}

func (req draftRequest) draft() invoice.Draft {
	return invoice.Draft{
		Type:              req.Type,
		CustomerID:        req.CustomerID,
		ItemIDs:           req.ItemIDs,
		InterestRate:      req.InterestRate,
		LoanPeriod:        req.LoanPeriod,
		TotalOverride:     req.TotalOverride,
		OriginID:          req.OriginID,
		InstallmentNumber: req.InstallmentNumber,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if render.Validation(w, err) {
		return
	}

	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	case errors.Is(err, item.ErrNotFound):
		http.Error(w, "one or more items do not exist", http.StatusUnprocessableEntity)
	case errors.Is(err, invoice.ErrItemsUnavailable), errors.Is(err, invoice.ErrHasDependents):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		render.Internal(w, r, err)
	}
}

// list filters on type, customer_id and origin_id and pages the result.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := invoice.ListFilter{}

	if s := q.Get("type"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || !loan.InvoiceType(n).Valid() {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}

		filter.Type = new(loan.InvoiceType(n))
	}

	for name, dst := range map[string]**uuid.UUID{"customer_id": &filter.CustomerID, "origin_id": &filter.OriginID} {
		s := q.Get(name)
		if s == "" {
			continue
		}

		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return
		}

		*dst = new(id)
	}

	h.writePage(w, r, filter)
}

func (h *Handler) listByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.writePage(w, r, invoice.ListFilter{CustomerID: new(id)})
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, filter invoice.ListFilter) {
	page := pagination.FromQuery(r.URL.Query())
	filter.Limit = page.Size
	filter.Offset = page.Offset()

	invs, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	page.Total = total

	render.JSON(w, http.StatusOK, render.NewPaged(toResponseList(invs), page))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !render.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.Create(r.Context(), req.draft())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(inv))
}

// quote prices a draft without recording it.
func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !render.Decode(w, r, &req) {
		return
	}

	q, err := h.svc.Quote(r.Context(), req.draft())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toQuoteResponse(q))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
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

func (h *Handler) loanInfo(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	state, err := h.svc.LoanInfo(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toLoanInfoResponse(state))
}
