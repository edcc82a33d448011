package api

import (
	"errors"
	"fmt"
)

// Common backend errors
var (
	// ErrUnexpectedStatus is returned when a GET answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrPaymentRejected is returned when the backend refuses a payment.
	// The wrapping *Error carries the backend's message.
	ErrPaymentRejected = errors.New("payment rejected by backend")

	// ErrDecodeResponse is returned when a response body is not the expected JSON.
	ErrDecodeResponse = errors.New("invalid JSON response")
)

// Error wraps a failed backend call with the request that caused it.
type Error struct {
	// Op is the client operation that failed (e.g., "GetJSON", "RecordPayment").
	Op string

	// Path is the request path including any query string.
	Path string

	// StatusCode and Status are set when the backend answered.
	StatusCode int
	Status     string

	// Message is the backend's reported error, or the status text when it sent none.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s failed: %s: %v", e.Op, e.Path, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("api: %s %s failed (status %d): %v", e.Op, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api: %s %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user for this failure.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != "" {
		return e.Status
	}
	return e.Err.Error()
}

// NewError creates a new Error for op and path.
func NewError(op, path string, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}
