package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ardash/internal/logger"
	"ardash/pkg/models"
)

// Client issues JSON requests against the backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Response is a raw backend reply. PostJSON returns it for every status code.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusText is the reason phrase without the numeric code, like a browser's statusText.
func (r *Response) StatusText() string {
	if text := http.StatusText(r.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(r.Status, fmt.Sprint(r.StatusCode)))
}

// NewClient creates a client for baseURL. A zero timeout disables the client-side timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient creates a client that sends requests through httpClient.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        logger.WithComponent("api"),
	}
}

// GetJSON fetches path and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	const op = "GetJSON"

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return NewError(op, path, err)
	}
	if !resp.OK() {
		return &Error{
			Op:         op,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.StatusText(),
			Message:    errorMessage(resp),
			Err:        ErrUnexpectedStatus,
		}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &Error{
			Op:         op,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrDecodeResponse, err),
		}
	}
	return nil
}

// PostJSON sends body as JSON. Non-2xx replies are returned, not treated as errors;
// the caller decides what the payload means.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	const op = "PostJSON"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewError(op, path, fmt.Errorf("failed to encode request body: %w", err))
	}

	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, NewError(op, path, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().
			Err(err).
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("Request failed")
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	return &Response{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       data,
	}, nil
}

// errorMessage extracts the backend's {"error": "..."} message, if any.
func errorMessage(resp *Response) string {
	var payload models.ErrorResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

// Customers implements Backend.
func (c *Client) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.GetJSON(ctx, PathCustomers, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Invoices implements Backend.
func (c *Client) Invoices(ctx context.Context, query string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := c.GetJSON(ctx, PathInvoices+query, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// KPIs implements Backend.
func (c *Client) KPIs(ctx context.Context, query string) (models.KPISummary, error) {
	var summary models.KPISummary
	if err := c.GetJSON(ctx, PathKPIs+query, &summary); err != nil {
		return models.KPISummary{}, err
	}
	return summary, nil
}

// TopDebtors implements Backend. The top-N list is global and ignores the active filter.
func (c *Client) TopDebtors(ctx context.Context) ([]models.TopDebtor, error) {
	var debtors []models.TopDebtor
	if err := c.GetJSON(ctx, PathTop5, &debtors); err != nil {
		return nil, err
	}
	return debtors, nil
}

// RecordPayment implements Backend.
func (c *Client) RecordPayment(ctx context.Context, payment models.PaymentRequest) (*models.MessageResponse, error) {
	const op = "RecordPayment"

	resp, err := c.PostJSON(ctx, PathPayments, payment)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		message := errorMessage(resp)
		if message == "" {
			message = resp.StatusText()
		}
		c.log.Warn().
			Int64("invoice_id", payment.InvoiceID).
			Int("status", resp.StatusCode).
			Str("error", message).
			Msg("Payment rejected")
		return nil, &Error{
			Op:         op,
			Path:       PathPayments,
			StatusCode: resp.StatusCode,
			Status:     resp.StatusText(),
			Message:    message,
			Err:        ErrPaymentRejected,
		}
	}

	var result models.MessageResponse
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			c.log.Warn().Err(err).Msg("Payment accepted with an unreadable body")
		}
	}

	c.log.Info().
		Int64("invoice_id", payment.InvoiceID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("payment_date", payment.PaymentDate.String()).
		Msg("Payment recorded")

	return &result, nil
}

var _ Backend = (*Client)(nil)
