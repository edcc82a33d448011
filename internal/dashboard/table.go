package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"ardash/pkg/models"
)

// compareFuncs orders invoices by each sortable field. Money compares as
// decimals, dates chronologically, everything else lexicographically.
var compareFuncs = map[string]func(a, b models.Invoice) int{
	models.FieldInvoiceID: func(a, b models.Invoice) int { return cmp.Compare(a.InvoiceID, b.InvoiceID) },
	models.FieldCustomerName: func(a, b models.Invoice) int {
		return strings.Compare(a.CustomerName, b.CustomerName)
	},
	models.FieldInvoiceDate: func(a, b models.Invoice) int { return a.InvoiceDate.Compare(b.InvoiceDate) },
	models.FieldDueDate:     func(a, b models.Invoice) int { return a.DueDate.Compare(b.DueDate) },
	models.FieldAmount:      func(a, b models.Invoice) int { return a.Amount.Cmp(b.Amount) },
	models.FieldTotalPaid:   func(a, b models.Invoice) int { return a.TotalPaid.Cmp(b.TotalPaid) },
	models.FieldOutstanding: func(a, b models.Invoice) int { return a.Outstanding.Cmp(b.Outstanding) },
	models.FieldAgingBucket: func(a, b models.Invoice) int {
		return strings.Compare(a.AgingBucket, b.AgingBucket)
	},
}

// FilterInvoices keeps the invoices whose "<id> <customer>" text contains the
// search term, case-insensitively. A blank term keeps all of them.
func FilterInvoices(invoices []models.Invoice, search string) []models.Invoice {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		haystack := strings.ToLower(fmt.Sprintf("%d %s", inv.InvoiceID, inv.CustomerName))
		if strings.Contains(haystack, term) {
			out = append(out, inv)
		}
	}
	return out
}

// SortInvoices stable-sorts invoices in place by key. An empty key leaves the
// order untouched.
func SortInvoices(invoices []models.Invoice, key string, asc bool) error {
	if key == "" {
		return nil
	}
	compare, ok := compareFuncs[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	if asc {
		slices.SortStableFunc(invoices, compare)
	} else {
		slices.SortStableFunc(invoices, func(a, b models.Invoice) int { return -compare(a, b) })
	}
	return nil
}

// NewRow formats an invoice for display and flags it when overdue.
func NewRow(inv models.Invoice) Row {
	return Row{
		InvoiceID:    inv.InvoiceID,
		CustomerName: inv.CustomerName,
		InvoiceDate:  inv.InvoiceDate.String(),
		DueDate:      inv.DueDate.String(),
		Amount:       inv.Amount.StringFixed(2),
		TotalPaid:    inv.TotalPaid.StringFixed(2),
		Outstanding:  inv.Outstanding.StringFixed(2),
		AgingBucket:  inv.AgingBucket,
		Overdue:      inv.IsOverdue(),
	}
}

// DeriveRows runs filter, sort and decorate over invoices. It never mutates
// its input and is recomputed from scratch on every render.
func DeriveRows(invoices []models.Invoice, search, sortKey string, sortAsc bool) ([]Row, error) {
	filtered := FilterInvoices(invoices, search)
	if err := SortInvoices(filtered, sortKey, sortAsc); err != nil {
		return nil, err
	}

	rows := make([]Row, len(filtered))
	for i, inv := range filtered {
		rows[i] = NewRow(inv)
	}
	return rows, nil
}

// DeriveTable builds the table view model from the current state and search term.
func DeriveTable(state ViewState, search string) (Table, error) {
	rows, err := DeriveRows(state.Invoices, search, state.SortKey, state.SortAsc)
	if err != nil {
		return Table{}, err
	}
	return Table{
		Rows:    rows,
		Search:  search,
		SortKey: state.SortKey,
		SortAsc: state.SortAsc,
		Loaded:  len(state.Invoices),
	}, nil
}
