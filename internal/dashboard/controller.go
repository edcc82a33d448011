// Package dashboard is the receivables dashboard controller.
//
// A Controller keeps one in-memory view of the backend data (ViewState),
// derives the filtered, sorted and decorated table from it without extra
// round-trips, and coordinates the payment dialog with full refreshes. All
// rendering goes through the View interface, so the pipeline runs the same
// under the terminal UI, the headless commands and tests.
//
// Refresh model:
//   - invoices, KPIs and the top-N list are fetched concurrently; rendering
//     starts only after all three arrive, in the order KPIs, table, chart
//   - every refresh takes a sequence number; a refresh that completes after a
//     newer one was issued is discarded (ErrStaleRefresh)
//   - a failed fetch aborts its refresh and leaves the previous data on screen
//   - the top-N fetch is never filtered by the active criteria
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ardash/internal/api"
	"ardash/internal/logger"
	"ardash/pkg/models"
)

// Controller wires the backend to the view and owns all dashboard state.
type Controller struct {
	backend api.Backend
	view    View
	now     func() time.Time
	log     zerolog.Logger

	// mu guards everything below. Network I/O never runs while it is held.
	mu        sync.Mutex
	state     ViewState
	filters   FilterForm
	dialog    PaymentDialog
	chart     *ChartView
	customers []models.Customer
	summary   *Summary
	debtors   []models.TopDebtor

	refreshSeq atomic.Uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used to default the payment date.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller that fetches from backend and renders into view.
func NewController(backend api.Backend, view View, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		view:    view,
		now:     time.Now,
		log:     logger.WithComponent("dashboard"),
		state:   NewViewState(),
		chart:   NewChartView(view),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init loads the customer reference data once, then performs the first refresh.
func (c *Controller) Init(ctx context.Context) error {
	if err := c.LoadCustomers(ctx); err != nil {
		return err
	}
	return c.RefreshAll(ctx)
}

// LoadCustomers fetches the customer list and hands it to the filter selector.
func (c *Controller) LoadCustomers(ctx context.Context) error {
	customers, err := c.backend.Customers(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to load customers")
		return fmt.Errorf("failed to load customers: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.customers = customers
	c.view.ShowCustomers(customers)

	c.log.Debug().Int("customers", len(customers)).Msg("Customers loaded")
	return nil
}

// RefreshAll re-fetches invoices, KPIs and the top-N list and re-renders
// every panel. It returns ErrStaleRefresh when a newer refresh overtook it.
func (c *Controller) RefreshAll(ctx context.Context) error {
	c.mu.Lock()
	criteria, err := c.filters.Criteria()
	c.mu.Unlock()
	if err != nil {
		c.notifyValidation(err)
		return err
	}

	seq := c.refreshSeq.Add(1)
	query := BuildQuery(criteria)
	log := c.log.With().Uint64("refresh", seq).Str("query", query).Logger()
	log.Debug().Msg("Refresh started")
	start := time.Now()

	var (
		invoices []models.Invoice
		kpi      models.KPISummary
		debtors  []models.TopDebtor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if invoices, err = c.backend.Invoices(gctx, query); err != nil {
			return &RefreshError{Seq: seq, Resource: "invoices", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if kpi, err = c.backend.KPIs(gctx, query); err != nil {
			return &RefreshError{Seq: seq, Resource: "kpis", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if debtors, err = c.backend.TopDebtors(gctx); err != nil {
			return &RefreshError{Seq: seq, Resource: "top5", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Refresh failed")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if latest := c.refreshSeq.Load(); seq != latest {
		log.Debug().Uint64("latest", latest).Msg("Discarding stale refresh")
		return ErrStaleRefresh
	}

	c.state.ReplaceInvoices(invoices)
	c.debtors = debtors

	summary := NewSummary(kpi)
	c.summary = &summary
	c.view.ShowSummary(summary)
	if err := c.renderTableLocked(); err != nil {
		return err
	}
	if err := c.chart.Render(debtors); err != nil {
		log.Error().Err(err).Msg("Failed to render chart")
		return fmt.Errorf("failed to render chart: %w", err)
	}

	log.Info().
		Int("invoices", len(invoices)).
		Int("top_debtors", len(debtors)).
		Dur("duration", time.Since(start)).
		Msg("Refresh completed")
	return nil
}

// SetCustomerFilter sets the customer selector. It does not refresh.
func (c *Controller) SetCustomerFilter(customerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.CustomerID = customerID
}

// SetStartDate sets the start date input. It does not refresh.
func (c *Controller) SetStartDate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.StartDate = date
}

// SetEndDate sets the end date input. It does not refresh.
func (c *Controller) SetEndDate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.EndDate = date
}

// ApplyFilters refreshes with the current criteria.
func (c *Controller) ApplyFilters(ctx context.Context) error {
	return c.RefreshAll(ctx)
}

// ResetFilters clears the criteria and the search box, then refreshes.
func (c *Controller) ResetFilters(ctx context.Context) error {
	c.mu.Lock()
	c.filters.Reset()
	c.mu.Unlock()
	return c.RefreshAll(ctx)
}

// Search re-renders the table for term without contacting the backend.
func (c *Controller) Search(term string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Search = term
	return c.renderTableLocked()
}

// SortBy applies a click on the column header bound to key and re-renders the table.
func (c *Controller) SortBy(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.state.ToggleSort(key); err != nil {
		return err
	}
	return c.renderTableLocked()
}

// OpenPayment opens the payment dialog for a loaded invoice. Sort and filter
// state are left alone.
func (c *Controller) OpenPayment(invoiceID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.HasInvoice(invoiceID) {
		return fmt.Errorf("%w: %d", ErrUnknownInvoice, invoiceID)
	}
	c.state.SelectInvoice(invoiceID)
	c.dialog.Open(invoiceID, c.now())
	c.view.ShowPaymentDialog(c.dialog.State())

	c.log.Debug().Int64("invoice_id", invoiceID).Msg("Payment dialog opened")
	return nil
}

// SetPaymentAmount updates the amount input of an open dialog.
func (c *Controller) SetPaymentAmount(amount string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog.IsOpen() {
		c.dialog.SetAmount(amount)
	}
}

// SetPaymentDate updates the date input of an open dialog.
func (c *Controller) SetPaymentDate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog.IsOpen() {
		c.dialog.SetDate(date)
	}
}

// CancelPayment closes the dialog and discards its values. The backend is not contacted.
func (c *Controller) CancelPayment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeDialogLocked()
}

// SavePayment validates and submits the dialog. Invalid input or a backend
// rejection is reported through View.Notify and leaves the dialog open with its
// values intact. On success the dialog closes and a full refresh follows.
//
// Only one save per dialog opening can be in flight; a second call returns
// ErrPaymentInFlight without contacting the backend. If the dialog was
// cancelled or reopened while the POST was pending, the outcome does not
// touch the new dialog.
func (c *Controller) SavePayment(ctx context.Context) error {
	c.mu.Lock()
	req, generation, err := c.dialog.Begin()
	if err == nil {
		c.view.ShowPaymentDialog(c.dialog.State())
	}
	c.mu.Unlock()
	if err != nil {
		if !errors.Is(err, ErrDialogClosed) && !errors.Is(err, ErrPaymentInFlight) {
			c.notifyValidation(err)
		}
		return err
	}

	_, err = c.backend.RecordPayment(ctx, req)

	c.mu.Lock()
	current := c.dialog.Finish(generation)
	if err == nil && current {
		c.closeDialogLocked()
	} else if current {
		c.view.ShowPaymentDialog(c.dialog.State())
	}
	c.mu.Unlock()

	if err != nil {
		message := err.Error()
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			message = apiErr.UserMessage()
		}
		c.view.Notify("Error: " + message)
		c.log.Error().Err(err).Int64("invoice_id", req.InvoiceID).Msg("Failed to record payment")
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if !current {
		c.log.Debug().Int64("invoice_id", req.InvoiceID).Msg("Payment recorded after its dialog was replaced")
	}
	return c.RefreshAll(ctx)
}

// Close releases the chart instance.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chart.Close()
}

// State returns a copy of the view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Filters returns the filter form.
func (c *Controller) Filters() FilterForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Customers returns the customer reference data.
func (c *Controller) Customers() []models.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Customer(nil), c.customers...)
}

// PaymentDialog returns the dialog state.
func (c *Controller) PaymentDialog() PaymentDialogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog.State()
}

// Table derives the current table view model.
func (c *Controller) Table() (Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DeriveTable(c.state, c.filters.Search)
}

// Summary returns the last rendered KPI summary, if a refresh has completed.
func (c *Controller) Summary() (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return Summary{}, false
	}
	return *c.summary, true
}

// TopDebtors returns the top-N list of the last completed refresh, in backend rank order.
func (c *Controller) TopDebtors() []models.TopDebtor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.TopDebtor(nil), c.debtors...)
}

func (c *Controller) renderTableLocked() error {
	table, err := DeriveTable(c.state, c.filters.Search)
	if err != nil {
		return err
	}
	c.view.ShowTable(table)
	return nil
}

func (c *Controller) closeDialogLocked() {
	c.dialog.Close()
	c.state.ClearSelection()
	c.view.ShowPaymentDialog(c.dialog.State())
}

func (c *Controller) notifyValidation(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.view.Notify(verr.Message)
		return
	}
	c.view.Notify(err.Error())
}
