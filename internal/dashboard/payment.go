package dashboard

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ardash/pkg/models"
)

const (
	msgInvalidAmount = "Enter a positive amount"
	msgInvalidDate   = "Enter a payment date (YYYY-MM-DD)"
	msgNoInvoice     = "No invoice selected"
)

// PaymentDialog is the two-state payment modal: closed, or open for one invoice.
type PaymentDialog struct {
	open      bool
	invoiceID int64
	amount    string
	date      string

	// generation changes on every Open, so a save can tell whether the
	// dialog it submitted is still the one on screen.
	generation uint64
	submitting bool
}

// paymentInput is the validated shape of the dialog's fields.
type paymentInput struct {
	InvoiceID   int64           `validate:"gt=0"`
	Amount      decimal.Decimal `validate:"gt=0"`
	PaymentDate string          `validate:"required,datetime=2006-01-02"`
}

// Open targets invoiceID, clears the amount and defaults the date to today.
func (d *PaymentDialog) Open(invoiceID int64, today time.Time) {
	d.open = true
	d.invoiceID = invoiceID
	d.amount = ""
	d.date = today.Format(models.DateLayout)
	d.generation++
	d.submitting = false
}

// IsOpen reports whether the dialog is open.
func (d *PaymentDialog) IsOpen() bool {
	return d.open
}

func (d *PaymentDialog) SetAmount(amount string) {
	d.amount = amount
}

func (d *PaymentDialog) SetDate(date string) {
	d.date = date
}

// Close discards the entered values.
func (d *PaymentDialog) Close() {
	*d = PaymentDialog{generation: d.generation}
}

// Generation identifies the current opening of the dialog.
func (d *PaymentDialog) Generation() uint64 {
	return d.generation
}

// Submitting reports whether a save of this opening is in flight.
func (d *PaymentDialog) Submitting() bool {
	return d.submitting
}

// Begin validates the dialog and marks it as submitting. It fails with
// ErrPaymentInFlight while an earlier save of the same opening is pending.
func (d *PaymentDialog) Begin() (models.PaymentRequest, uint64, error) {
	if d.open && d.submitting {
		return models.PaymentRequest{}, 0, ErrPaymentInFlight
	}
	req, err := d.Validate()
	if err != nil {
		return models.PaymentRequest{}, 0, err
	}
	d.submitting = true
	return req, d.generation, nil
}

// Finish ends the save started by Begin for generation. It reports whether
// the dialog is still that opening; a cancelled or reopened dialog is left alone.
func (d *PaymentDialog) Finish(generation uint64) bool {
	if !d.open || d.generation != generation {
		return false
	}
	d.submitting = false
	return true
}

// State returns the dialog as a renderer sees it.
func (d *PaymentDialog) State() PaymentDialogState {
	return PaymentDialogState{
		Open:       d.open,
		InvoiceID:  d.invoiceID,
		Amount:     d.amount,
		Date:       d.date,
		Submitting: d.submitting,
	}
}

// Validate checks the entered values and builds the request. The dialog is
// left unchanged either way.
func (d *PaymentDialog) Validate() (models.PaymentRequest, error) {
	if !d.open {
		return models.PaymentRequest{}, ErrDialogClosed
	}

	raw := strings.TrimSpace(d.amount)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return models.PaymentRequest{}, NewValidationError(ErrInvalidPayment, "amount", d.amount, msgInvalidAmount)
	}

	input := paymentInput{
		InvoiceID:   d.invoiceID,
		Amount:      amount,
		PaymentDate: strings.TrimSpace(d.date),
	}
	if err := validate.Struct(input); err != nil {
		fe, ok := firstFieldError(err)
		if !ok {
			return models.PaymentRequest{}, NewValidationError(ErrInvalidPayment, "payment", input, err.Error())
		}
		switch fe.Field() {
		case "Amount":
			return models.PaymentRequest{}, NewValidationError(ErrInvalidPayment, "amount", d.amount, msgInvalidAmount)
		case "PaymentDate":
			return models.PaymentRequest{}, NewValidationError(ErrInvalidPayment, "payment_date", d.date, msgInvalidDate)
		default:
			return models.PaymentRequest{}, NewValidationError(ErrInvalidPayment, "invoice_id", d.invoiceID, msgNoInvoice)
		}
	}

	date, err := models.ParseDate(input.PaymentDate)
	if err != nil {
		return models.PaymentRequest{}, NewValidationError(ErrInvalidPayment, "payment_date", d.date, msgInvalidDate)
	}

	return models.PaymentRequest{
		InvoiceID:   input.InvoiceID,
		Amount:      amount,
		PaymentDate: date,
	}, nil
}
