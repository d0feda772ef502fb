package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

type transactionResponse struct {
	ID              uuid.UUID        `json:"id"`
	TransactionType transaction.Type `json:"transaction_type"`
	TypeName        string           `json:"type_name"`
	SubTotal        decimal.Decimal  `json:"sub_total"`
	InterestAmount  decimal.Decimal  `json:"interest_amount"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	CustomerNIC     string           `json:"customer_nic,omitempty"`
	InvoiceID       uuid.UUID        `json:"invoice_id"`
	InvoiceNumber   string           `json:"invoice_number,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		TransactionType: tx.Type,
		TypeName:        tx.Type.String(),
		SubTotal:        tx.SubTotal,
		InterestAmount:  tx.InterestAmount,
		TotalAmount:     tx.TotalAmount,
		CustomerID:      tx.CustomerID,
		CustomerNIC:     tx.CustomerNIC,
		InvoiceID:       tx.InvoiceID,
		InvoiceNumber:   tx.InvoiceNumber,
		CreatedAt:       tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
