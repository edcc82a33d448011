package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceDecodesBackendEncodings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "iso dates and numbers",
			body: `{"invoice_id":1,"customer_name":"Acme","invoice_date":"2024-01-01","due_date":"2024-01-15",
				"amount":100,"total_paid":40,"outstanding":60,"aging_bucket":"1-30"}`,
		},
		{
			name: "http dates and decimal strings",
			body: `{"invoice_id":1,"customer_name":"Acme","invoice_date":"Mon, 01 Jan 2024 00:00:00 GMT",
				"due_date":"Mon, 15 Jan 2024 00:00:00 GMT","amount":"100.00","total_paid":"40.00",
				"outstanding":"60.00","aging_bucket":"1-30"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inv Invoice
			require.NoError(t, json.Unmarshal([]byte(tt.body), &inv))

			assert.Equal(t, int64(1), inv.InvoiceID)
			assert.Equal(t, "2024-01-01", inv.InvoiceDate.String())
			assert.Equal(t, "2024-01-15", inv.DueDate.String())
			assert.True(t, inv.Outstanding.Equal(decimal.NewFromInt(60)))
			assert.True(t, inv.IsOverdue())
		})
	}
}

func TestInvoiceIsOverdue(t *testing.T) {
	tests := []struct {
		bucket      string
		outstanding string
		want        bool
	}{
		{Bucket31To60, "150.00", true},
		{BucketCurrent, "150.00", false},
		{Bucket1To30, "0.00", false},
		{Bucket90Plus, "0.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.bucket+"/"+tt.outstanding, func(t *testing.T) {
			inv := Invoice{AgingBucket: tt.bucket, Outstanding: decimal.RequireFromString(tt.outstanding)}
			assert.Equal(t, tt.want, inv.IsOverdue())
		})
	}
}

func TestPaymentRequestWireFormat(t *testing.T) {
	req := PaymentRequest{
		InvoiceID:   1,
		Amount:      decimal.NewFromInt(60),
		PaymentDate: MustParseDate("2024-02-01"),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoice_id":1,"amount":60,"payment_date":"2024-02-01"}`, string(data))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("01/02/2024")
	assert.Error(t, err)
}

func TestKPISummaryOptionalOverdueOutstanding(t *testing.T) {
	var withField, without KPISummary
	require.NoError(t, json.Unmarshal([]byte(`{"total_invoiced":1,"total_received":0,"total_outstanding":1,"percent_overdue":50,"overdue_outstanding":0.5}`), &withField))
	require.NoError(t, json.Unmarshal([]byte(`{"total_invoiced":1,"total_received":0,"total_outstanding":1,"percent_overdue":50}`), &without))

	assert.True(t, withField.OverdueOutstanding.Valid)
	assert.False(t, without.OverdueOutstanding.Valid)
}
