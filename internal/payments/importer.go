package payments

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ardash/internal/api"
	"ardash/internal/dashboard"
	"ardash/internal/logger"
)

// Dialog is the part of the dashboard controller a batch import drives. Each
// row goes through the same dialog validation as a payment typed by hand.
type Dialog interface {
	OpenPayment(invoiceID int64) error
	SetPaymentAmount(amount string)
	SetPaymentDate(date string)
	SavePayment(ctx context.Context) error
	CancelPayment()
}

// Importer submits payment rows one at a time.
type Importer struct {
	dialog Dialog
	log    zerolog.Logger

	// Progress, if set, is called after each row.
	Progress func(done, total int, result Result)
}

// NewImporter creates an importer that submits through dialog.
func NewImporter(dialog Dialog) *Importer {
	return &Importer{
		dialog: dialog,
		log:    logger.WithComponent("payments-import"),
	}
}

// Import submits rows in order. Rows that fail are reported and the import
// continues; only cancellation of ctx stops it early, in which case the
// results so far are returned together with the context error.
func (im *Importer) Import(ctx context.Context, rows []Row) ([]Result, error) {
	results := make([]Result, 0, len(rows))

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			im.log.Warn().
				Int("processed", i).
				Int("total", len(rows)).
				Msg("Payment import canceled")
			return results, err
		}

		result := im.submit(ctx, row)
		results = append(results, result)

		if im.Progress != nil {
			im.Progress(i+1, len(rows), result)
		}
	}

	s := Summarize(results)
	im.log.Info().
		Int("recorded", s.Recorded).
		Int("rejected", s.Rejected).
		Int("invalid", s.Invalid).
		Msg("Payment import completed")

	return results, nil
}

func (im *Importer) submit(ctx context.Context, row Row) Result {
	result := Result{
		Row:     row,
		Line:    row.Line,
		Invoice: row.InvoiceID,
	}

	if err := im.dialog.OpenPayment(row.InvoiceID); err != nil {
		result.Status = StatusInvalid
		result.Message = "invoice is not in the current list"
		im.log.Warn().Err(err).Int("line", row.Line).Msg("Skipping payment for unknown invoice")
		return result
	}

	im.dialog.SetPaymentAmount(row.Amount)
	im.dialog.SetPaymentDate(row.PaymentDate)

	err := im.dialog.SavePayment(ctx)

	var verr *dashboard.ValidationError
	var refreshErr *dashboard.RefreshError
	var apiErr *api.Error
	switch {
	case err == nil, errors.Is(err, dashboard.ErrStaleRefresh):
		result.Status = StatusRecorded
	case errors.As(err, &refreshErr):
		// The payment went through; only the reload afterwards failed.
		result.Status = StatusRecorded
		result.Message = "recorded, refresh failed: " + refreshErr.Resource
	case errors.As(err, &verr):
		result.Status = StatusInvalid
		result.Message = verr.Message
	case errors.As(err, &apiErr):
		result.Status = StatusRejected
		result.Message = apiErr.UserMessage()
	default:
		result.Status = StatusRejected
		result.Message = err.Error()
	}

	if result.Status != StatusRecorded {
		// Leave the dialog closed for the next row.
		im.dialog.CancelPayment()
		im.log.Warn().
			Int("line", row.Line).
			Int64("invoice_id", row.InvoiceID).
			Str("status", result.Status).
			Str("reason", result.Message).
			Msg("Payment not recorded")
	}

	return result
}
