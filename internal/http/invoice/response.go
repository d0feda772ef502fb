package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
)

type invoiceResponse struct {
	ID                uuid.UUID             `json:"id"`
	Number            string                `json:"invoice_number"`
	Type              loan.InvoiceType      `json:"invoice_type"`
	TypeName          string                `json:"type_name"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	CustomerNIC       string                `json:"customer_nic,omitempty"`
	OriginID          *uuid.UUID            `json:"origin_id,omitempty"`
	ItemIDs           []uuid.UUID           `json:"item_ids,omitempty"`
	SubTotal          decimal.Decimal       `json:"sub_total"`
	InterestRate      decimal.Decimal       `json:"interest_rate"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	LoanPeriod        int                   `json:"loan_period"`
	InstallmentNumber int                   `json:"installment_number,omitempty"`
	PaymentStatus     invoice.PaymentStatus `json:"payment_status"`
	DateGenerated     time.Time             `json:"date_generated"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:                inv.ID,
		Number:            inv.Number,
		Type:              inv.Type,
		TypeName:          inv.Type.String(),
		CustomerID:        inv.CustomerID,
		CustomerNIC:       inv.CustomerNIC,
		OriginID:          inv.OriginID,
		ItemIDs:           inv.ItemIDs,
		SubTotal:          inv.SubTotal,
		InterestRate:      inv.InterestRate,
		TotalAmount:       inv.TotalAmount,
		LoanPeriod:        inv.LoanPeriod,
		InstallmentNumber: inv.InstallmentNumber,
		PaymentStatus:     inv.PaymentStatus,
		DateGenerated:     inv.DateGenerated,
	}
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	return resp
}

type quoteResponse struct {
	Type              loan.InvoiceType `json:"invoice_type"`
	SubTotal          decimal.Decimal  `json:"sub_total"`
	InterestRate      decimal.Decimal  `json:"interest_rate"`
	Interest          decimal.Decimal  `json:"interest"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	TotalMode         string           `json:"total_mode"`
	InstallmentNumber int              `json:"installment_number,omitempty"`
}

func toQuoteResponse(q *invoice.Quote) quoteResponse {
	return quoteResponse{
		Type:              q.Type,
		SubTotal:          q.SubTotal,
		InterestRate:      q.InterestRate,
		Interest:          q.Interest,
		TotalAmount:       q.TotalAmount,
		TotalMode:         q.TotalMode.String(),
		InstallmentNumber: q.InstallmentNumber,
	}
}

// loanInfoResponse carries the next installment only while the loan still accepts one.
type loanInfoResponse struct {
	OriginID          uuid.UUID        `json:"origin_id"`
	Number            string           `json:"invoice_number"`
	CustomerID        uuid.UUID        `json:"customer_id"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	LoanPeriod        int              `json:"loan_period"`
	InstallmentsPaid  int              `json:"installments_paid"`
	Settled           bool             `json:"settled"`
	NextInstallment   int              `json:"next_installment,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
}

func toLoanInfoResponse(s *invoice.LoanState) loanInfoResponse {
	resp := loanInfoResponse{
		OriginID:         s.OriginID,
		Number:           s.Number,
		CustomerID:       s.CustomerID,
		TotalAmount:      s.Origin.TotalAmount,
		LoanPeriod:       s.Origin.LoanPeriod,
		InstallmentsPaid: s.Origin.InstallmentsPaid,
		Settled:          s.Origin.Settled,
	}

	if s.Origin.InstallmentsPaid >= s.Origin.LoanPeriod {
		return resp
	}

	if next, err := loan.CalculateInstallment(s.Origin); err == nil {
		resp.NextInstallment = next.Number
		resp.InstallmentAmount = new(next.Amount.Round(2))
	}

	return resp
}
