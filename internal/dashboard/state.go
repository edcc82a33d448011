package dashboard

import (
	"fmt"
	"slices"

	"ardash/pkg/models"
)

// ViewState is the dashboard's only shared mutable state. It is owned by a
// Controller and never touched without the controller's lock.
type ViewState struct {
	// Invoices is the last fetched invoice list, replaced wholesale on refresh.
	Invoices []models.Invoice

	// SortKey is "" or one of models.InvoiceFields.
	SortKey string
	SortAsc bool

	// SelectedInvoiceID is non-zero only while the payment dialog is open.
	SelectedInvoiceID int64
}

// NewViewState returns the initial state: no data, unsorted, nothing selected.
func NewViewState() ViewState {
	return ViewState{SortAsc: true}
}

// ReplaceInvoices swaps in a freshly fetched list.
func (s *ViewState) ReplaceInvoices(invoices []models.Invoice) {
	s.Invoices = invoices
}

// ToggleSort applies a column-header click: a new key sorts ascending, the
// current key flips direction.
func (s *ViewState) ToggleSort(key string) error {
	if !models.IsInvoiceField(key) {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	if s.SortKey == key {
		s.SortAsc = !s.SortAsc
		return nil
	}
	s.SortKey = key
	s.SortAsc = true
	return nil
}

// SelectInvoice records the payment target.
func (s *ViewState) SelectInvoice(id int64) {
	s.SelectedInvoiceID = id
}

// ClearSelection forgets the payment target.
func (s *ViewState) ClearSelection() {
	s.SelectedInvoiceID = 0
}

// HasInvoice reports whether id is in the loaded list.
func (s *ViewState) HasInvoice(id int64) bool {
	return slices.ContainsFunc(s.Invoices, func(inv models.Invoice) bool {
		return inv.InvoiceID == id
	})
}

// Snapshot returns a copy that shares nothing with s.
func (s *ViewState) Snapshot() ViewState {
	cp := *s
	cp.Invoices = slices.Clone(s.Invoices)
	return cp
}
