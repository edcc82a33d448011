package models

import "github.com/shopspring/decimal"

// Aging bucket labels assigned by the backend. Only BucketCurrent changes client behaviour.
const (
	BucketCurrent = "Current"
	Bucket0To30   = "0-30"
	Bucket1To30   = "1-30"
	Bucket31To60  = "31-60"
	Bucket61To90  = "61-90"
	Bucket90Plus  = "90+"
)

// Invoice field names as they appear on the wire. They double as table sort keys.
const (
	FieldInvoiceID    = "invoice_id"
	FieldCustomerName = "customer_name"
	FieldInvoiceDate  = "invoice_date"
	FieldDueDate      = "due_date"
	FieldAmount       = "amount"
	FieldTotalPaid    = "total_paid"
	FieldOutstanding  = "outstanding"
	FieldAgingBucket  = "aging_bucket"
)

// InvoiceFields lists every invoice field in table column order.
var InvoiceFields = []string{
	FieldInvoiceID,
	FieldCustomerName,
	FieldInvoiceDate,
	FieldDueDate,
	FieldAmount,
	FieldTotalPaid,
	FieldOutstanding,
	FieldAgingBucket,
}

type Invoice struct {
	// Core identifiers
	InvoiceID    int64  `json:"invoice_id"`
	CustomerName string `json:"customer_name"`

	// Dates
	InvoiceDate Date `json:"invoice_date"`
	DueDate     Date `json:"due_date"`

	// Amounts. Outstanding = Amount - TotalPaid is maintained by the backend.
	Amount      decimal.Decimal `json:"amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`

	// Backend-assigned aging label, see the Bucket* constants
	AgingBucket string `json:"aging_bucket"`
}

// IsOverdue reports whether the invoice should be highlighted: it is past
// the current bucket and still has an unpaid remainder.
func (i Invoice) IsOverdue() bool {
	return i.AgingBucket != BucketCurrent && i.Outstanding.IsPositive()
}

// IsInvoiceField reports whether name is one of InvoiceFields.
func IsInvoiceField(name string) bool {
	for _, f := range InvoiceFields {
		if f == name {
			return true
		}
	}
	return false
}
