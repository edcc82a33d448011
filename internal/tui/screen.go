package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"ardash/internal/dashboard"
	"ardash/pkg/models"
)

const (
	sortAscMark  = " ▲"
	sortDescMark = " ▼"
	columnGap    = "  "
)

type column struct {
	title string
	width int
	right bool
	value func(r dashboard.Row) string
}

// columns follows models.InvoiceFields, so the sort keys 1-8 map by index.
var columns = []column{
	{"Invoice", 9, true, func(r dashboard.Row) string { return strconv.FormatInt(r.InvoiceID, 10) }},
	{"Customer", 20, false, func(r dashboard.Row) string { return r.CustomerName }},
	{"Invoice date", 14, false, func(r dashboard.Row) string { return r.InvoiceDate }},
	{"Due date", 12, false, func(r dashboard.Row) string { return r.DueDate }},
	{"Amount", 11, true, func(r dashboard.Row) string { return r.Amount }},
	{"Paid", 11, true, func(r dashboard.Row) string { return r.TotalPaid }},
	{"Outstanding", 13, true, func(r dashboard.Row) string { return r.Outstanding }},
	{"Aging", 8, false, func(r dashboard.Row) string { return r.AgingBucket }},
}

// Screen is the terminal implementation of dashboard.View. It stores the
// latest view models; the bubbletea model reads them back when it redraws.
type Screen struct {
	styles Styles

	mu        sync.Mutex
	customers []models.Customer
	summary   *dashboard.Summary
	table     dashboard.Table
	dialog    dashboard.PaymentDialogState
	chart     *BarChart
	notice    string
}

var _ dashboard.View = (*Screen)(nil)

// NewScreen creates an empty screen.
func NewScreen(styles Styles) *Screen {
	return &Screen{styles: styles}
}

func (s *Screen) NewChart(data dashboard.ChartData) (dashboard.Chart, error) {
	chart := NewBarChart(data, s.styles)
	s.mu.Lock()
	s.chart = chart
	s.mu.Unlock()
	return chart, nil
}

func (s *Screen) ShowCustomers(customers []models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = customers
}

func (s *Screen) ShowSummary(summary dashboard.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
}

func (s *Screen) ShowTable(table dashboard.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

func (s *Screen) ShowPaymentDialog(dialog dashboard.PaymentDialogState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = dialog
}

func (s *Screen) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = message
}

// Notice returns the last notification and clears it.
func (s *Screen) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

// Table returns the last rendered table.
func (s *Screen) Table() dashboard.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Dialog returns the payment dialog state.
func (s *Screen) Dialog() dashboard.PaymentDialogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// Customers returns the customers shown in the selector.
func (s *Screen) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customers
}

// ChartData returns the configuration of the live chart.
func (s *Screen) ChartData() (dashboard.ChartData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chart == nil || s.chart.Destroyed() {
		return dashboard.ChartData{}, false
	}
	return s.chart.Data(), true
}

// Render draws the KPI panel, the full table and the chart. It is what the
// snapshot command prints.
func (s *Screen) Render(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.styles.Title.Render("Accounts Receivable"),
		s.RenderSummary(),
		s.RenderTable(-1, 0),
		"",
		s.RenderChart(width),
	)
}

// RenderSummary draws the four KPI boxes.
func (s *Screen) RenderSummary() string {
	s.mu.Lock()
	summary := s.summary
	s.mu.Unlock()

	if summary == nil {
		return s.styles.Muted.Render("Loading KPIs...")
	}

	kpi := func(label, value string) string {
		return s.styles.Panel.Render(s.styles.KPILabel.Render(label) + "\n" + s.styles.KPIValue.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		kpi("Total invoiced", summary.TotalInvoiced),
		kpi("Total received", summary.TotalReceived),
		kpi("Outstanding", summary.TotalOutstanding),
		kpi("Overdue", summary.PercentOverdue),
	)
}

// RenderTable draws the header and up to limit rows around cursor. A negative
// cursor highlights nothing; limit 0 draws every row.
func (s *Screen) RenderTable(cursor, limit int) string {
	s.mu.Lock()
	table := s.table
	s.mu.Unlock()

	var b strings.Builder
	headers := make([]string, len(columns))
	for i, col := range columns {
		title := col.title
		if table.SortKey == models.InvoiceFields[i] {
			if table.SortAsc {
				title += sortAscMark
			} else {
				title += sortDescMark
			}
		}
		headers[i] = s.styles.Header.Render(pad(title, col.width, col.right))
	}
	b.WriteString(strings.Join(headers, columnGap))

	first, last := window(len(table.Rows), cursor, limit)
	for i := first; i < last; i++ {
		row := table.Rows[i]
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = pad(col.value(row), col.width, col.right)
		}
		line := strings.Join(cells, columnGap)

		style := s.styles.Row
		if row.Overdue {
			style = s.styles.Overdue
		}
		if i == cursor {
			style = style.Inherit(s.styles.Selected)
		}
		b.WriteString("\n" + style.Render(line))
	}

	footer := fmt.Sprintf("%d of %d invoices", len(table.Rows), table.Loaded)
	if table.Search != "" {
		footer += fmt.Sprintf(" matching %q", table.Search)
	}
	b.WriteString("\n" + s.styles.Muted.Render(footer))
	return b.String()
}

// RenderChart draws the current chart, if any.
func (s *Screen) RenderChart(width int) string {
	s.mu.Lock()
	chart := s.chart
	s.mu.Unlock()

	title := s.styles.Title.Render("Top debtors")
	if chart == nil || chart.Destroyed() {
		return title
	}
	return title + "\n" + chart.Render(width)
}

// window returns the [first, last) row range to draw so that cursor stays visible.
func window(total, cursor, limit int) (int, int) {
	if limit <= 0 || total <= limit {
		return 0, total
	}
	first := 0
	if cursor >= limit {
		first = cursor - limit + 1
	}
	return first, first + limit
}

// pad fits s into width display cells.
func pad(s string, width int, right bool) string {
	s = truncate(s, width)
	fill := strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
	if right {
		return fill + s
	}
	return s + fill
}
