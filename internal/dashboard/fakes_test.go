package dashboard

import (
	"context"
	"sync"

	"ardash/pkg/models"
)

// fakeBackend serves canned data and records calls.
type fakeBackend struct {
	mu sync.Mutex

	customers []models.Customer
	invoices  []models.Invoice
	kpi       models.KPISummary
	debtors   []models.TopDebtor

	invoicesErr error
	paymentErr  error

	// invoicesHook, if set, runs inside Invoices and may block.
	invoicesHook func(query string)

	// paymentHook, if set, runs inside RecordPayment after the call is recorded and may block.
	paymentHook func(payment models.PaymentRequest)

	invoiceQueries []string
	kpiQueries     []string
	topCalls       int
	payments       []models.PaymentRequest
}

func (f *fakeBackend) Customers(ctx context.Context) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers, nil
}

func (f *fakeBackend) Invoices(ctx context.Context, query string) ([]models.Invoice, error) {
	f.mu.Lock()
	f.invoiceQueries = append(f.invoiceQueries, query)
	hook := f.invoicesHook
	invoices, err := f.invoices, f.invoicesErr
	f.mu.Unlock()

	if hook != nil {
		hook(query)
	}
	return invoices, err
}

func (f *fakeBackend) KPIs(ctx context.Context, query string) (models.KPISummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kpiQueries = append(f.kpiQueries, query)
	return f.kpi, nil
}

func (f *fakeBackend) TopDebtors(ctx context.Context) ([]models.TopDebtor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topCalls++
	return f.debtors, nil
}

func (f *fakeBackend) RecordPayment(ctx context.Context, payment models.PaymentRequest) (*models.MessageResponse, error) {
	f.mu.Lock()
	f.payments = append(f.payments, payment)
	hook, err := f.paymentHook, f.paymentErr
	f.mu.Unlock()

	if hook != nil {
		hook(payment)
	}
	if err != nil {
		return nil, err
	}
	return &models.MessageResponse{Message: "Payment recorded"}, nil
}

func (f *fakeBackend) paymentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

func (f *fakeBackend) invoiceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invoiceQueries)
}

// recordingView remembers everything it was asked to show.
type recordingView struct {
	mu sync.Mutex

	events    []string
	customers []models.Customer
	summary   Summary
	table     Table
	dialog    PaymentDialogState
	notices   []string
	charts    []*fakeChart
}

type fakeChart struct {
	data      ChartData
	destroyed int
}

func (c *fakeChart) Destroy() { c.destroyed++ }

func (v *recordingView) NewChart(data ChartData) (Chart, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "chart")
	chart := &fakeChart{data: data}
	v.charts = append(v.charts, chart)
	return chart, nil
}

func (v *recordingView) ShowCustomers(customers []models.Customer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "customers")
	v.customers = customers
}

func (v *recordingView) ShowSummary(summary Summary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "summary")
	v.summary = summary
}

func (v *recordingView) ShowTable(table Table) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "table")
	v.table = table
}

func (v *recordingView) ShowPaymentDialog(dialog PaymentDialogState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "dialog")
	v.dialog = dialog
}

func (v *recordingView) Notify(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, message)
}

func (v *recordingView) lastTable() Table {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.table
}

func (v *recordingView) resetEvents() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = nil
}
