package models

import "github.com/shopspring/decimal"

// Customer is reference data for the customer filter selector.
type Customer struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
}

// KPISummary is the backend's receivables snapshot for the active filter.
type KPISummary struct {
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	PercentOverdue   decimal.Decimal `json:"percent_overdue"`

	// OverdueOutstanding is only sent by newer backends.
	OverdueOutstanding decimal.NullDecimal `json:"overdue_outstanding"`
}

// TopDebtor is one entry of the backend-ranked top-N list. Order is significant.
type TopDebtor struct {
	CustomerID       int64           `json:"customer_id,omitempty"`
	Name             string          `json:"name"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// FilterCriteria narrows the invoice and KPI queries. Empty fields are not sent.
type FilterCriteria struct {
	CustomerID string `json:"customer_id,omitempty" validate:"omitempty,number"`
	StartDate  string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.CustomerID == "" && c.StartDate == "" && c.EndDate == ""
}
