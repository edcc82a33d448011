// Package export writes the derived dashboard views to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ardash/internal/dashboard"
)

const (
	InvoicesSheet = "Invoices"
	SummarySheet  = "Summary"
)

var invoiceHeader = []interface{}{
	"Invoice", "Customer", "Invoice date", "Due date", "Amount", "Paid", "Outstanding", "Aging",
}

// WriteXLSX writes rows and summary as a workbook to w. Rows are written in
// the order given; overdue rows are filled red.
func WriteXLSX(w io.Writer, rows []dashboard.Row, summary dashboard.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvoicesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeInvoices(f, rows, styles); err != nil {
		return err
	}
	if err := writeSummary(f, summary, styles); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	header  int
	money   int
	overdue int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	moneyFormat := "#,##0.00"
	s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return s, fmt.Errorf("failed to create money style: %w", err)
	}

	s.overdue, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Color: "#9C0006"},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		CustomNumFmt: &moneyFormat,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create overdue style: %w", err)
	}

	return s, nil
}

func writeInvoices(f *excelize.File, rows []dashboard.Row, styles sheetStyles) error {
	if err := f.SetSheetRow(InvoicesSheet, "A1", &invoiceHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(InvoicesSheet, "A1", "H1", styles.header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		r := i + 2
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.InvoiceID,
			row.CustomerName,
			row.InvoiceDate,
			row.DueDate,
			money(row.Amount),
			money(row.TotalPaid),
			money(row.Outstanding),
			row.AgingBucket,
		}
		if err := f.SetSheetRow(InvoicesSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}

		first, last := fmt.Sprintf("E%d", r), fmt.Sprintf("G%d", r)
		style := styles.money
		if row.Overdue {
			first, last = cell, fmt.Sprintf("H%d", r)
			style = styles.overdue
		}
		if err := f.SetCellStyle(InvoicesSheet, first, last, style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", r, err)
		}
	}

	if err := f.SetColWidth(InvoicesSheet, "B", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(InvoicesSheet, "C", "G", 14); err != nil {
		return err
	}
	return f.SetPanes(InvoicesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, summary dashboard.Summary, styles sheetStyles) error {
	kpis := [][]interface{}{
		{"Metric", "Value"},
		{"Total invoiced", money(summary.TotalInvoiced)},
		{"Total received", money(summary.TotalReceived)},
		{"Total outstanding", money(summary.TotalOutstanding)},
		{"Percent overdue", summary.PercentOverdue},
	}
	for i, kpi := range kpis {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &kpi); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := f.SetCellStyle(SummarySheet, "A1", "B1", styles.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "B2", "B4", styles.money); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "B", 20)
}

// money stores a formatted amount as a number so spreadsheets can sum it.
func money(s string) interface{} {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}
