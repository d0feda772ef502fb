package pricing

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/encoding"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

type Handler struct {
	svc *pricing.Service
}

func NewHandler(svc *pricing.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/karats", h.karats)
	r.Get("/loan-periods", h.loanPeriods)
	r.Get("/propose", h.propose)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(user.RoleAdmin))

		r.Post("/", h.create)
		r.Post("/import", h.importCSV)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type pricingResponse struct {
	ID           uuid.UUID       `json:"id"`
	KaratID      int             `json:"karat_id"`
	KaratName    string          `json:"karat,omitempty"`
	LoanPeriodID int             `json:"loan_period_id"`
	Months       int             `json:"months,omitempty"`
	Price        decimal.Decimal `json:"price"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toResponse(p *pricing.Pricing) pricingResponse {
	return pricingResponse{
		ID:           p.ID,
		KaratID:      p.KaratID,
		KaratName:    p.KaratName,
		LoanPeriodID: p.LoanPeriodID,
		Months:       p.Months,
		Price:        p.Price,
		UpdatedAt:    p.UpdatedAt,
	}
}

type karatResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type loanPeriodResponse struct {
	ID     int `json:"id"`
	Months int `json:"months"`
}

type createRequest struct {
	KaratID      int             `json:"karat_id" validate:"gt=0"`
	LoanPeriodID int             `json:"loan_period_id" validate:"gt=0"`
	Price        decimal.Decimal `json:"price"`
}

type updateRequest struct {
	Price decimal.Decimal `json:"price"`
}

type proposalResponse struct {
	Pricing    pricingResponse `json:"pricing"`
	GoldWeight decimal.Decimal `json:"gold_weight"`
	Value      decimal.Decimal `json:"value"`
}

type importResponse struct {
	Profile string           `json:"profile"`
	Charset encoding.Charset `json:"charset"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pricing.ErrNotFound):
		http.Error(w, "price not found", http.StatusNotFound)
	case errors.Is(err, pricing.ErrInvalid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, pricing.ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		render.Internal(w, r, err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	prices, err := h.svc.List(r.Context())
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	resp := make([]pricingResponse, len(prices))
	for i, p := range prices {
		resp[i] = toResponse(p)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) karats(w http.ResponseWriter, r *http.Request) {
	karats, err := h.svc.Karats(r.Context())
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	resp := make([]karatResponse, len(karats))
	for i, k := range karats {
		resp[i] = karatResponse{ID: k.ID, Name: k.Name}
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) loanPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.svc.LoanPeriods(r.Context())
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	resp := make([]loanPeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = loanPeriodResponse{ID: p.ID, Months: p.Months}
	}

	render.JSON(w, http.StatusOK, resp)
}

// propose values a gold weight: ?karat_id=&loan_period_id=&gold_weight=.
func (h *Handler) propose(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	karatID, err := strconv.Atoi(q.Get("karat_id"))
	if err != nil {
		http.Error(w, "invalid karat_id", http.StatusBadRequest)
		return
	}

	periodID, err := strconv.Atoi(q.Get("loan_period_id"))
	if err != nil {
		http.Error(w, "invalid loan_period_id", http.StatusBadRequest)
		return
	}

	weight, err := decimal.NewFromString(q.Get("gold_weight"))
	if err != nil {
		http.Error(w, "invalid gold_weight", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Propose(r.Context(), karatID, periodID, weight)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, proposalResponse{
		Pricing:    toResponse(p.Pricing),
		GoldWeight: p.GoldWeight,
		Value:      p.Value,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), pricing.CreateParams{
		KaratID:      req.KaratID,
		LoanPeriodID: req.LoanPeriodID,
		Price:        req.Price,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.IDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.UpdatePrice(r.Context(), id, req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
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

// importCSV loads a pricing sheet sent as the multipart field "file".
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, importResponse{
		Profile: result.Profile,
		Charset: result.Charset,
		Created: result.Created,
		Updated: result.Updated,
	})
}
