package dashboard

import (
	"errors"
	"fmt"
)

// Common dashboard errors
var (
	// ErrUnknownSortKey is returned when a sort is requested on a field invoices do not have.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrUnknownInvoice is returned when a payment is opened for an invoice that is not loaded.
	ErrUnknownInvoice = errors.New("invoice is not in the current list")

	// ErrInvalidPayment is returned when the payment form does not validate.
	ErrInvalidPayment = errors.New("invalid payment")

	// ErrInvalidFilter is returned when the filter form does not validate.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrDialogClosed is returned when a payment is saved while the dialog is closed.
	ErrDialogClosed = errors.New("payment dialog is not open")

	// ErrPaymentInFlight is returned when a payment is saved while the same dialog is still posting.
	ErrPaymentInFlight = errors.New("payment is already being saved")

	// ErrStaleRefresh is returned when a refresh completed after a newer one was issued.
	// Its data has been discarded; callers normally ignore it.
	ErrStaleRefresh = errors.New("refresh superseded by a newer refresh")
)

// ValidationError describes a rejected form field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string

	// Err is ErrInvalidPayment or ErrInvalidFilter.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the form-level sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(err error, field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// RefreshError wraps a failed fetch during a refresh.
type RefreshError struct {
	// Seq is the refresh sequence number.
	Seq uint64

	// Resource is the backend resource whose fetch failed ("invoices", "kpis", "top5").
	Resource string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RefreshError) Error() string {
	return fmt.Sprintf("dashboard: refresh #%d failed loading %s: %v", e.Seq, e.Resource, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RefreshError) Unwrap() error {
	return e.Err
}
