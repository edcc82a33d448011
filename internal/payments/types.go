package payments

// Row is one payment read from a batch file.
type Row struct {
	Line        int    // source line, for reporting
	InvoiceID   int64  // invoice_id - column A
	Amount      string // normalized amount - column B
	PaymentDate string // YYYY-MM-DD, defaulted to today - column C
}

// Result status values.
const (
	StatusRecorded = "recorded"
	StatusRejected = "rejected"
	StatusInvalid  = "invalid"
)

// Result is the outcome of submitting one Row.
type Result struct {
	Row     Row    `json:"-"`
	Line    int    `json:"line"`
	Invoice int64  `json:"invoice_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Summary counts the results of a batch.
type Summary struct {
	Recorded int
	Rejected int
	Invalid  int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusRecorded:
			s.Recorded++
		case StatusRejected:
			s.Rejected++
		case StatusInvalid:
			s.Invalid++
		}
	}
	return s
}

// Failed reports whether any row was not recorded.
func (s Summary) Failed() bool {
	return s.Rejected > 0 || s.Invalid > 0
}
