// Package payments reads payment batches for import through the payment dialog.
package payments

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ardash/internal/logger"
	"ardash/pkg/models"
)

// Expected columns: A=invoice_id, B=amount, C=payment_date (optional).
const (
	colInvoiceID = iota
	colAmount
	colPaymentDate
	minColumns = colAmount + 1
)

// ErrEmptyBatch is returned when a batch has no header row.
var ErrEmptyBatch = errors.New("payment batch is empty")

// Reader parses payment batches in CSV form.
type Reader struct {
	log zerolog.Logger

	// Today fills in rows without a payment date.
	Today func() time.Time
}

// NewReader creates a payment batch reader.
func NewReader() *Reader {
	return &Reader{
		log:   logger.WithComponent("payments-reader"),
		Today: time.Now,
	}
}

// Read parses every data row of r. The first row is a header. Rows that cannot
// be parsed are logged and skipped. Amounts and dates are normalized but not
// validated; the payment dialog does that when each row is submitted.
func (pr *Reader) Read(r io.Reader) ([]Row, error) {
	const op = "Read"

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyBatch)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", op, err)
	}

	var rows []Row
	total := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read CSV: %w", op, err)
		}
		total++
		rowNum, _ := cr.FieldPos(0)

		if isBlank(record) {
			continue
		}
		if len(record) < minColumns {
			pr.log.Warn().
				Int("row", rowNum).
				Int("columns", len(record)).
				Msg("Skipping payment row with insufficient columns")
			continue
		}

		row, err := pr.parseRow(record, rowNum)
		if err != nil {
			pr.log.Warn().
				Err(err).
				Int("row", rowNum).
				Msg("Failed to parse payment row, skipping")
			continue
		}
		rows = append(rows, row)
	}

	pr.log.Info().
		Int("total_rows", total).
		Int("parsed_rows", len(rows)).
		Msg("Payment batch read")

	return rows, nil
}

func (pr *Reader) parseRow(record []string, rowNum int) (Row, error) {
	const op = "parseRow"

	idStr := field(record, colInvoiceID)
	id, err := strconv.ParseInt(strings.TrimPrefix(idStr, "#"), 10, 64)
	if err != nil || id <= 0 {
		return Row{}, fmt.Errorf("%s: invalid invoice id '%s' in row %d", op, idStr, rowNum)
	}

	date := field(record, colPaymentDate)
	if date == "" {
		date = pr.Today().Format(models.DateLayout)
	} else {
		date = NormalizeDate(date)
	}

	return Row{
		Line:        rowNum,
		InvoiceID:   id,
		Amount:      NormalizeAmount(field(record, colAmount)),
		PaymentDate: date,
	}, nil
}

// NormalizeDate rewrites DD.MM.YYYY style dates as YYYY-MM-DD. Anything it
// does not recognize is returned unchanged.
func NormalizeDate(s string) string {
	cleaned := strings.TrimSpace(s)

	formats := []string{
		models.DateLayout,
		"02.01.2006",
		"2.1.2006",
		"02/01/2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return cleaned
}

// NormalizeAmount strips currency markers and thousands separators and turns a
// decimal comma into a point: "1.234,56 €" becomes "1234.56". Anything it does
// not recognize is returned with only whitespace and currency removed.
func NormalizeAmount(s string) string {
	cleaned := strings.TrimSpace(s)
	for _, marker := range []string{" ", "€", "$", "EUR", "USD"} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// 1.234,56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			cleaned = parts[0] + "." + parts[1]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}
	return cleaned
}

func field(record []string, index int) string {
	if index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
