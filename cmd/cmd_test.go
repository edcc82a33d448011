package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receivablesBackend serves one invoice. failInvoicesFrom makes every
// /invoices call from that number on (1-based) answer 500.
type receivablesBackend struct {
	mu               sync.Mutex
	invoiceCalls     int
	posts            int
	failInvoicesFrom int
}

func (b *receivablesBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/customers":
		_, _ = io.WriteString(w, `[{"customer_id":1,"name":"Acme"},{"customer_id":2,"name":"Globex"}]`)
	case "/invoices":
		b.invoiceCalls++
		if b.failInvoicesFrom > 0 && b.invoiceCalls >= b.failInvoicesFrom {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"db down"}`)
			return
		}
		outstanding := "60.00"
		if b.posts > 0 {
			outstanding = "0.00"
		}
		_, _ = io.WriteString(w, `[{"invoice_id":1,"customer_name":"Acme","invoice_date":"2024-01-01",`+
			`"due_date":"2024-01-15","amount":"100.00","total_paid":"40.00","outstanding":"`+outstanding+`",`+
			`"aging_bucket":"1-30"}]`)
	case "/kpis":
		_, _ = io.WriteString(w, `{"total_invoiced":"100.00","total_received":"40.00",`+
			`"total_outstanding":"60.00","percent_overdue":100}`)
	case "/top5":
		_, _ = io.WriteString(w, `[{"customer_id":2,"name":"Globex","total_outstanding":"900.55"},`+
			`{"customer_id":1,"name":"Acme","total_outstanding":"60.10"}]`)
	case "/payments":
		b.posts++
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Payment recorded"}`)
	default:
		http.NotFound(w, r)
	}
}

func (b *receivablesBackend) postCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.posts
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPayRecordsPayment(t *testing.T) {
	backend := &receivablesBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	out, err := executeCommand(t, "pay", "--api-url", srv.URL, "--invoice", "1", "--amount", "60", "--date", "2024-02-01")
	require.NoError(t, err)

	assert.Equal(t, 1, backend.postCount())
	assert.Equal(t, "Payment recorded for invoice 1 (Acme). Outstanding: 0.00\n", out)
}

func TestPaySucceedsWhenRefreshAfterPaymentFails(t *testing.T) {
	// The first /invoices call loads the list; the refresh after the POST fails.
	backend := &receivablesBackend{failInvoicesFrom: 2}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	out, err := executeCommand(t, "pay", "--api-url", srv.URL, "--invoice", "1", "--amount", "60", "--date", "2024-02-01")
	require.NoError(t, err)

	assert.Equal(t, 1, backend.postCount())
	assert.Equal(t, "Payment recorded for invoice 1 (refresh failed: invoices: db down)\n", out)
}

func TestPayFailsBeforePosting(t *testing.T) {
	backend := &receivablesBackend{failInvoicesFrom: 1}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	_, err := executeCommand(t, "pay", "--api-url", srv.URL, "--invoice", "1", "--amount", "60", "--date", "2024-02-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, 0, backend.postCount())
}

func TestSnapshotJSONKeepsDebtorDecimals(t *testing.T) {
	backend := &receivablesBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	_, err := executeCommand(t, "snapshot", "--api-url", srv.URL, "--format", "json", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		TopDebtors []struct {
			CustomerID       int64  `json:"customer_id"`
			Name             string `json:"name"`
			TotalOutstanding string `json:"total_outstanding"`
		} `json:"top_debtors"`
		Invoices []SnapshotRow `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	require.Len(t, got.TopDebtors, 2)
	assert.Equal(t, int64(2), got.TopDebtors[0].CustomerID)
	assert.Equal(t, "Globex", got.TopDebtors[0].Name)
	assert.Equal(t, "900.55", got.TopDebtors[0].TotalOutstanding)
	assert.Equal(t, "60.1", got.TopDebtors[1].TotalOutstanding)

	require.Len(t, got.Invoices, 1)
	assert.True(t, got.Invoices[0].Overdue)
}
