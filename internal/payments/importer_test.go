package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ardash/internal/api"
	"ardash/internal/dashboard"
)

// scriptedDialog answers SavePayment per invoice from a table of errors.
type scriptedDialog struct {
	known   map[int64]bool
	saveErr map[int64]error

	open      int64
	amount    string
	date      string
	submitted []string
	canceled  int
	onSave    func()
}

func (d *scriptedDialog) OpenPayment(id int64) error {
	if !d.known[id] {
		return fmt.Errorf("%w: %d", dashboard.ErrUnknownInvoice, id)
	}
	d.open = id
	return nil
}

func (d *scriptedDialog) SetPaymentAmount(amount string) { d.amount = amount }
func (d *scriptedDialog) SetPaymentDate(date string)     { d.date = date }

func (d *scriptedDialog) SavePayment(ctx context.Context) error {
	d.submitted = append(d.submitted, fmt.Sprintf("%d %s %s", d.open, d.amount, d.date))
	if d.onSave != nil {
		d.onSave()
	}
	return d.saveErr[d.open]
}

func (d *scriptedDialog) CancelPayment() {
	d.canceled++
	d.open = 0
}

func TestImporterImport(t *testing.T) {
	rejected := api.NewError("RecordPayment", "/payments", api.ErrPaymentRejected)
	rejected.StatusCode = http.StatusNotFound
	rejected.Message = "Invoice not found"

	dialog := &scriptedDialog{
		known: map[int64]bool{1: true, 2: true, 3: true, 4: true},
		saveErr: map[int64]error{
			2: dashboard.NewValidationError(dashboard.ErrInvalidPayment, "amount", "-3", "Amount must be greater than zero"),
			3: fmt.Errorf("failed to record payment: %w", rejected),
			4: &dashboard.RefreshError{Seq: 9, Resource: "kpis", Err: errors.New("boom")},
		},
	}

	rows := []Row{
		{Line: 2, InvoiceID: 1, Amount: "60", PaymentDate: "2024-02-01"},
		{Line: 3, InvoiceID: 2, Amount: "-3", PaymentDate: "2024-02-01"},
		{Line: 4, InvoiceID: 3, Amount: "10", PaymentDate: "2024-02-01"},
		{Line: 5, InvoiceID: 4, Amount: "5", PaymentDate: "2024-02-01"},
		{Line: 6, InvoiceID: 99, Amount: "5", PaymentDate: "2024-02-01"},
	}

	var progress []int
	im := NewImporter(dialog)
	im.Progress = func(done, total int, _ Result) {
		assert.Equal(t, len(rows), total)
		progress = append(progress, done)
	}

	results, err := im.Import(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, results, len(rows))

	statuses := make([]string, len(results))
	for i, r := range results {
		statuses[i] = r.Status
	}
	assert.Equal(t, []string{StatusRecorded, StatusInvalid, StatusRejected, StatusRecorded, StatusInvalid}, statuses)
	assert.Equal(t, "Amount must be greater than zero", results[1].Message)
	assert.Equal(t, "Invoice not found", results[2].Message)
	assert.Equal(t, "recorded, refresh failed: kpis", results[3].Message)
	assert.Equal(t, 6, results[4].Line)

	// The unknown invoice never reaches SavePayment.
	assert.Equal(t, []string{
		"1 60 2024-02-01",
		"2 -3 2024-02-01",
		"3 10 2024-02-01",
		"4 5 2024-02-01",
	}, dialog.submitted)
	assert.Equal(t, 2, dialog.canceled)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)

	s := Summarize(results)
	assert.Equal(t, Summary{Recorded: 2, Rejected: 1, Invalid: 2}, s)
	assert.True(t, s.Failed())
}

func TestImporterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dialog := &scriptedDialog{known: map[int64]bool{1: true, 2: true}}
	dialog.onSave = cancel

	rows := []Row{
		{Line: 2, InvoiceID: 1, Amount: "1", PaymentDate: "2024-02-01"},
		{Line: 3, InvoiceID: 2, Amount: "1", PaymentDate: "2024-02-01"},
	}

	results, err := NewImporter(dialog).Import(ctx, rows)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Equal(t, StatusRecorded, results[0].Status)
	assert.Len(t, dialog.submitted, 1)
}

func TestSummaryFailed(t *testing.T) {
	assert.False(t, Summary{Recorded: 3}.Failed())
	assert.False(t, Summary{}.Failed())
	assert.True(t, Summary{Recorded: 1, Rejected: 1}.Failed())
}
