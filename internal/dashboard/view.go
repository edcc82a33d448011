package dashboard

import "ardash/pkg/models"

// Row is one decorated table row. Money columns are formatted with two decimals.
type Row struct {
	InvoiceID    int64
	CustomerName string
	InvoiceDate  string
	DueDate      string
	Amount       string
	TotalPaid    string
	Outstanding  string
	AgingBucket  string

	// Overdue marks the row for highlighting. It is not part of the invoice.
	Overdue bool
}

// Table is what a table renderer receives on every render.
type Table struct {
	Rows    []Row
	Search  string
	SortKey string
	SortAsc bool

	// Loaded is the size of the unfiltered invoice list.
	Loaded int
}

// Summary holds the four formatted KPI values.
type Summary struct {
	TotalInvoiced    string
	TotalReceived    string
	TotalOutstanding string
	PercentOverdue   string
}

// PaymentDialogState is the payment modal as a renderer sees it.
type PaymentDialogState struct {
	Open      bool
	InvoiceID int64
	Amount    string
	Date      string

	// Submitting is set while the payment is being posted.
	Submitting bool
}

// Series is one data series of a chart.
type Series struct {
	Label  string
	Values []float64
}

// ChartData is the fixed-configuration input of a chart instance.
type ChartData struct {
	Type       string
	Labels     []string
	Series     []Series
	ShowLegend bool
}

// Chart is a rendered chart instance owned by a ChartView.
type Chart interface {
	// Destroy releases the instance. It is called exactly once.
	Destroy()
}

// ChartFactory builds chart instances.
type ChartFactory interface {
	NewChart(data ChartData) (Chart, error)
}

// View is the rendering surface driven by the Controller. Implementations hold
// no dashboard logic; they display what they are given.
type View interface {
	ChartFactory

	// ShowCustomers populates the customer filter selector.
	ShowCustomers(customers []models.Customer)

	// ShowSummary renders the KPI panel.
	ShowSummary(summary Summary)

	// ShowTable renders the invoice table.
	ShowTable(table Table)

	// ShowPaymentDialog opens, updates or closes the payment modal.
	ShowPaymentDialog(dialog PaymentDialogState)

	// Notify reports a message the user must acknowledge.
	Notify(message string)
}
