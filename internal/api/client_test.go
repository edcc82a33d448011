package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ardash/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0)
}

func TestInvoicesPassesQuery(t *testing.T) {
	var gotURI string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"invoice_id":1,"customer_name":"Acme","amount":100,"total_paid":40,
			"outstanding":60,"aging_bucket":"1-30","invoice_date":"2024-01-01","due_date":"2024-01-15"}]`)
	})

	invoices, err := client.Invoices(context.Background(), "?customer_id=7&start_date=2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, "/invoices?customer_id=7&start_date=2024-01-01", gotURI)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Acme", invoices[0].CustomerName)
	assert.True(t, invoices[0].Outstanding.Equal(decimal.NewFromInt(60)))
}

func TestTopDebtorsIgnoresFilter(t *testing.T) {
	var gotURI string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		_, _ = io.WriteString(w, `[{"customer_id":3,"name":"Globex","total_outstanding":"900.50"},{"name":"Acme","total_outstanding":60}]`)
	})

	debtors, err := client.TopDebtors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/top5", gotURI)
	require.Len(t, debtors, 2)
	assert.Equal(t, "Globex", debtors[0].Name)
	assert.Equal(t, "900.50", debtors[0].TotalOutstanding.StringFixed(2))
}

func TestGetJSONErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
		wantMsg    string
	}{
		{"server error with message", http.StatusInternalServerError, `{"error":"db down"}`, ErrUnexpectedStatus, 500, "db down"},
		{"server error with html", http.StatusBadGateway, `<html>bad gateway</html>`, ErrUnexpectedStatus, 502, "Bad Gateway"},
		{"invalid json", http.StatusOK, `not json`, ErrDecodeResponse, 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.KPIs(context.Background(), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apiErr.UserMessage())
			}
		})
	}
}

func TestGetJSONTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, 0)

	_, err := client.Customers(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, PathCustomers, apiErr.Path)
}

func TestRecordPaymentSuccess(t *testing.T) {
	var body map[string]any
	var contentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathPayments, r.URL.Path)
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"message":"Payment recorded"}`)
	})

	res, err := client.RecordPayment(context.Background(), models.PaymentRequest{
		InvoiceID:   1,
		Amount:      decimal.NewFromInt(60),
		PaymentDate: models.MustParseDate("2024-02-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Payment recorded", res.Message)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]any{"invoice_id": float64(1), "amount": float64(60), "payment_date": "2024-02-01"}, body)
}

func TestRecordPaymentRejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"backend message", http.StatusNotFound, `{"error":"Invoice not found"}`, "Invoice not found"},
		{"no error field", http.StatusBadRequest, `{}`, "Bad Request"},
		{"not json", http.StatusInternalServerError, `oops`, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.RecordPayment(context.Background(), models.PaymentRequest{
				InvoiceID:   9,
				Amount:      decimal.NewFromInt(1),
				PaymentDate: models.MustParseDate("2024-02-01"),
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPaymentRejected)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantMsg, apiErr.UserMessage())
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestPostJSONReturnsNon2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"duplicate"}`)
	})

	resp, err := client.PostJSON(context.Background(), "/anything", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "Conflict", resp.StatusText())
	assert.JSONEq(t, `{"error":"duplicate"}`, string(resp.Body))
}
