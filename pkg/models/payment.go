package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the outbound body of POST /payments.
type PaymentRequest struct {
	InvoiceID   int64           `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate Date            `json:"payment_date"`
}

// MarshalJSON sends the amount as a JSON number; decimal.Decimal quotes it by default.
func (p PaymentRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		InvoiceID   int64       `json:"invoice_id"`
		Amount      json.Number `json:"amount"`
		PaymentDate Date        `json:"payment_date"`
	}{
		InvoiceID:   p.InvoiceID,
		Amount:      json.Number(p.Amount.String()),
		PaymentDate: p.PaymentDate,
	})
}

// MessageResponse is the success body of a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body the backend sends with non-2xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
}
