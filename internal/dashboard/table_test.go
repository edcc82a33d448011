package dashboard

import (
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ardash/pkg/models"
)

func invoice(id int64, customer, outstanding, bucket, invoiceDate string) models.Invoice {
	out := decimal.RequireFromString(outstanding)
	return models.Invoice{
		InvoiceID:    id,
		CustomerName: customer,
		InvoiceDate:  models.MustParseDate(invoiceDate),
		DueDate:      models.MustParseDate(invoiceDate),
		Amount:       out.Add(decimal.NewFromInt(10)),
		TotalPaid:    decimal.NewFromInt(10),
		Outstanding:  out,
		AgingBucket:  bucket,
	}
}

func sampleInvoices() []models.Invoice {
	return []models.Invoice{
		invoice(1, "Acme", "60", models.Bucket1To30, "2024-01-01"),
		invoice(2, "Globex", "900.5", models.Bucket90Plus, "2023-10-01"),
		invoice(3, "acme Labs", "0", models.BucketCurrent, "2024-02-10"),
		invoice(12, "Initech", "60", models.BucketCurrent, "2024-01-20"),
		invoice(21, "Umbrella", "5", models.Bucket31To60, "2023-12-05"),
	}
}

func ids(rows []Row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.InvoiceID
	}
	return out
}

func TestFilterInvoices(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []int64
	}{
		{"empty term keeps all", "", []int64{1, 2, 3, 12, 21}},
		{"blank term keeps all", "   ", []int64{1, 2, 3, 12, 21}},
		{"case insensitive name", "ACME", []int64{1, 3}},
		{"matches id digits", "1", []int64{1, 12, 21}},
		{"spans id and name", "2 globex", []int64{2}},
		{"no match", "wayne", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterInvoices(sampleInvoices(), tt.search)
			gotIDs := make([]int64, len(got))
			for i, inv := range got {
				gotIDs[i] = inv.InvoiceID
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}

func TestFilterMatchesDefinition(t *testing.T) {
	invoices := sampleInvoices()
	for _, term := range []string{"a", "ac", "1 a", "init", "x"} {
		got := FilterInvoices(invoices, term)
		var want []models.Invoice
		for _, inv := range invoices {
			hay := strings.ToLower(strconv.FormatInt(inv.InvoiceID, 10) + " " + inv.CustomerName)
			if strings.Contains(hay, strings.ToLower(term)) {
				want = append(want, inv)
			}
		}
		assert.Equal(t, len(want), len(got), "term %q", term)
	}
}

func TestSortInvoices(t *testing.T) {
	tests := []struct {
		name string
		key  string
		asc  bool
		want []int64
	}{
		{"no key keeps order", "", true, []int64{1, 2, 3, 12, 21}},
		{"outstanding ascending is stable", models.FieldOutstanding, true, []int64{3, 21, 1, 12, 2}},
		{"outstanding descending is stable", models.FieldOutstanding, false, []int64{2, 1, 12, 21, 3}},
		{"numeric ids not lexicographic", models.FieldInvoiceID, false, []int64{21, 12, 3, 2, 1}},
		{"dates chronological", models.FieldInvoiceDate, true, []int64{2, 21, 1, 12, 3}},
		{"names lexicographic", models.FieldCustomerName, true, []int64{1, 2, 12, 21, 3}},
		{"bucket labels", models.FieldAgingBucket, true, []int64{1, 21, 2, 3, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoices := sampleInvoices()
			require.NoError(t, SortInvoices(invoices, tt.key, tt.asc))
			got := make([]int64, len(invoices))
			for i, inv := range invoices {
				got[i] = inv.InvoiceID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortInvoicesUnknownKey(t *testing.T) {
	err := SortInvoices(sampleInvoices(), "color", true)
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}

func TestDeriveRowsDecorates(t *testing.T) {
	rows, err := DeriveRows([]models.Invoice{
		invoice(1, "A", "150.00", models.Bucket31To60, "2024-01-01"),
		invoice(2, "B", "150.00", models.BucketCurrent, "2024-01-01"),
		invoice(3, "C", "0.00", models.Bucket1To30, "2024-01-01"),
	}, "", "", true)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.True(t, rows[0].Overdue)
	assert.False(t, rows[1].Overdue)
	assert.False(t, rows[2].Overdue)
	assert.Equal(t, "150.00", rows[0].Outstanding)
	assert.Equal(t, "160.00", rows[0].Amount)
	assert.Equal(t, "2024-01-01", rows[0].InvoiceDate)
}

func TestDeriveRowsDoesNotMutateInput(t *testing.T) {
	invoices := sampleInvoices()
	_, err := DeriveRows(invoices, "", models.FieldOutstanding, false)
	require.NoError(t, err)
	assert.Equal(t, sampleInvoices(), invoices)
}

func TestToggleSortCycle(t *testing.T) {
	state := NewViewState()
	state.ReplaceInvoices(sampleInvoices())

	require.NoError(t, state.ToggleSort(models.FieldOutstanding))
	first, err := DeriveTable(state, "")
	require.NoError(t, err)
	assert.True(t, first.SortAsc)

	require.NoError(t, state.ToggleSort(models.FieldOutstanding))
	second, err := DeriveTable(state, "")
	require.NoError(t, err)
	assert.False(t, second.SortAsc)

	require.NoError(t, state.ToggleSort(models.FieldOutstanding))
	third, err := DeriveTable(state, "")
	require.NoError(t, err)
	assert.True(t, third.SortAsc)
	assert.Equal(t, ids(first.Rows), ids(third.Rows))

	require.NoError(t, state.ToggleSort(models.FieldCustomerName))
	assert.Equal(t, models.FieldCustomerName, state.SortKey)
	assert.True(t, state.SortAsc)

	assert.ErrorIs(t, state.ToggleSort("nope"), ErrUnknownSortKey)
	assert.Equal(t, models.FieldCustomerName, state.SortKey)
}
