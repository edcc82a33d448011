// Package api is the client for the receivables backend REST surface.
//
// Endpoints consumed:
//   - GET  /customers                                     customer reference data
//   - GET  /invoices[?customer_id=&start_date=&end_date=] invoice rows with aging
//   - GET  /kpis[?customer_id=&start_date=&end_date=]     KPI summary
//   - GET  /top5                                          top debtors, never filtered
//   - POST /payments                                      record a payment
//
// Failed payments carry an {"error": "..."} body; the client falls back to the
// HTTP status text when it is missing. Requests are never retried.
package api

import (
	"context"

	"ardash/pkg/models"
)

// Endpoint paths
const (
	PathCustomers = "/customers"
	PathInvoices  = "/invoices"
	PathKPIs      = "/kpis"
	PathTop5      = "/top5"
	PathPayments  = "/payments"
)

// Backend defines the typed operations the dashboard needs from the server.
type Backend interface {
	// Customers returns the customer list for the filter selector.
	Customers(ctx context.Context) ([]models.Customer, error)

	// Invoices returns invoice rows. query is "" or a "?"-prefixed filter query.
	Invoices(ctx context.Context, query string) ([]models.Invoice, error)

	// KPIs returns the KPI summary for the same filter query as Invoices.
	KPIs(ctx context.Context, query string) (models.KPISummary, error)

	// TopDebtors returns the backend-ranked top-N list. It takes no filter.
	TopDebtors(ctx context.Context) ([]models.TopDebtor, error)

	// RecordPayment submits a payment. A rejection is an *Error wrapping ErrPaymentRejected.
	RecordPayment(ctx context.Context, payment models.PaymentRequest) (*models.MessageResponse, error)
}
