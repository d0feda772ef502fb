package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/export"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
	"github.com/MrJamesThe3rd/pawnbook/internal/report"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

type Handler struct {
	reports *report.Service
	svc     *export.Service
}

func NewHandler(reports *report.Service, svc *export.Service) *Handler {
	return &Handler{reports: reports, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.summary)
	r.Get("/transactions/export", h.download)
}

type rowResponse struct {
	Date           time.Time        `json:"date"`
	Type           transaction.Type `json:"transaction_type"`
	TypeName       string           `json:"type_name"`
	InvoiceNumber  string           `json:"invoice_number"`
	CustomerNIC    string           `json:"customer_nic"`
	SubTotal       decimal.Decimal  `json:"sub_total"`
	InterestAmount decimal.Decimal  `json:"interest_amount"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
}

type bucketResponse struct {
	Rows  []rowResponse   `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

type summaryResponse struct {
	From        *time.Time     `json:"from,omitempty"`
	To          *time.Time     `json:"to,omitempty"`
	All         []rowResponse  `json:"all"`
	Issuance    bucketResponse `json:"loan_issuance"`
	Installment bucketResponse `json:"installment_payments"`
	Summary     string         `json:"summary"`
}

func toRows(rows []report.Row) []rowResponse {
	resp := make([]rowResponse, len(rows))
	for i, row := range rows {
		resp[i] = rowResponse{
			Date:           row.Date,
			Type:           row.Type,
			TypeName:       row.Type.String(),
			InvoiceNumber:  row.InvoiceNumber,
			CustomerNIC:    row.CustomerNIC,
			SubTotal:       row.SubTotal,
			InterestAmount: row.InterestAmount,
			TotalAmount:    row.TotalAmount,
		}
	}

	return resp
}

func toSummaryResponse(c report.Classification) summaryResponse {
	resp := summaryResponse{
		All:         toRows(c.All),
		Issuance:    bucketResponse{Rows: toRows(c.Issuance.Rows), Total: c.Issuance.Total},
		Installment: bucketResponse{Rows: toRows(c.Installment.Rows), Total: c.Installment.Total},
		Summary:     export.GenerateSummary(c),
	}

	if !c.From.IsZero() {
		resp.From = new(c.From)
	}

	if !c.To.IsZero() {
		resp.To = new(c.To)
	}

	return resp
}

func timeframe(r *http.Request) (from, to time.Time, err error) {
	if from, err = render.DateParam(r, "from"); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if to, err = render.DateParam(r, "to"); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, errors.New("from must be before to")
	}

	return from, to, nil
}

// summary returns the report for [from, to). Either bound may be omitted.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := timeframe(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.reports.Summarize(r.Context(), from, to)
	if err != nil {
		render.Internal(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toSummaryResponse(c))
}

// download renders the report as ?format=xlsx|pdf|txt. The file is built in memory before
// any header is written.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	from, to, err := timeframe(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), &buf, format, from, to); err != nil {
		render.Internal(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s\"", export.Filename(format, from, to)))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
	}
}
