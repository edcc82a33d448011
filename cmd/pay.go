package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ardash/internal/api"
	"ardash/internal/dashboard"
	"ardash/internal/logger"
	"ardash/internal/payments"
	"ardash/internal/tui"
	"ardash/pkg/models"
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Record a payment against an invoice",
	Long: `Record a payment against one invoice, the same way the dashboard's
payment dialog does.

The invoice list is loaded first so that the invoice can be checked; the
amount must be a positive number and the date must be YYYY-MM-DD (default
today). After the backend accepts the payment the dashboard is refreshed and the
invoice's new outstanding balance is printed.

With --file, payments are read from a CSV file with the columns
invoice_id, amount and payment_date (optional, default today). The first line
is a header. Amounts like "1.234,56 €" and dates like 15.01.2024 are
normalized first. Each row is then submitted through the payment dialog in
order; rows that fail are reported and the batch continues.`,
	Example: `  # Pay 60.00 on invoice 1 today
  ardash pay --invoice 1 --amount 60

  # Backdated payment
  ardash pay --invoice 42 --amount 125.50 --date 2024-02-01

  # Import a bank export
  ardash pay --file payments.csv`,
	Args: cobra.NoArgs,
	RunE: runPay,
}

func init() {
	rootCmd.AddCommand(payCmd)

	payCmd.Flags().Int64("invoice", 0, "Invoice number (required without --file)")
	payCmd.Flags().String("amount", "", "Payment amount (required without --file)")
	payCmd.Flags().String("date", "", "Payment date YYYY-MM-DD (default: today)")
	payCmd.Flags().StringP("file", "f", "", "CSV file of payments to import")
	payCmd.MarkFlagsMutuallyExclusive("file", "invoice")
	payCmd.MarkFlagsMutuallyExclusive("file", "amount")
	payCmd.MarkFlagsMutuallyExclusive("file", "date")
}

func runPay(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("pay")

	filePath, _ := cmd.Flags().GetString("file")
	if filePath == "" {
		if !cmd.Flags().Changed("invoice") || !cmd.Flags().Changed("amount") {
			return fmt.Errorf("--invoice and --amount are required unless --file is given")
		}
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen := tui.NewScreen(tui.DefaultStyles())
	ctrl, err := newController(cmd, screen, log)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if filePath != "" {
		return runPayBatch(ctx, ctrl, filePath, log)
	}

	invoiceID, _ := cmd.Flags().GetInt64("invoice")
	amount, _ := cmd.Flags().GetString("amount")
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	log.Info().
		Int64("invoice_id", invoiceID).
		Str("amount", amount).
		Str("date", date).
		Msg("Recording payment")

	if err := ctrl.RefreshAll(ctx); err != nil {
		return handleDashboardError(err, log)
	}
	if err := ctrl.OpenPayment(invoiceID); err != nil {
		return handleDashboardError(err, log)
	}

	ctrl.SetPaymentAmount(amount)
	ctrl.SetPaymentDate(date)

	out := cmd.OutOrStdout()
	var refreshErr *dashboard.RefreshError
	if err := ctrl.SavePayment(ctx); err != nil {
		if !errors.As(err, &refreshErr) {
			return handleDashboardError(err, log)
		}
		// The backend has the payment; only the reload afterwards failed.
		log.Warn().
			Err(err).
			Int64("invoice_id", invoiceID).
			Msg("Payment recorded but refresh failed")
		fmt.Fprintf(out, "Payment recorded for invoice %d (refresh failed: %s)\n",
			invoiceID, refreshFailure(refreshErr))
		return nil
	}

	if row, ok := findRow(screen, invoiceID); ok {
		fmt.Fprintf(out, "Payment recorded for invoice %d (%s). Outstanding: %s\n",
			invoiceID, row.CustomerName, row.Outstanding)
		return nil
	}

	fmt.Fprintf(out, "Payment recorded for invoice %d\n", invoiceID)
	return nil
}

// refreshFailure describes a failed refresh in a single line.
func refreshFailure(err *dashboard.RefreshError) string {
	var apiErr *api.Error
	if errors.As(err.Err, &apiErr) {
		return fmt.Sprintf("%s: %s", err.Resource, apiErr.UserMessage())
	}
	return fmt.Sprintf("%s: %v", err.Resource, err.Err)
}

func runPayBatch(ctx context.Context, ctrl *dashboard.Controller, filePath string, log zerolog.Logger) error {
	file, err := os.Open(filePath)
	if err != nil {
		log.Error().Err(err).Str("file", filePath).Msg("Failed to open payment file")
		return fmt.Errorf("failed to open payment file: %w", err)
	}
	defer file.Close()

	rows, err := payments.NewReader().Read(file)
	if err != nil {
		return fmt.Errorf("failed to read payment file: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("No payments found in file.")
		return nil
	}

	if err := ctrl.RefreshAll(ctx); err != nil {
		return handleDashboardError(err, log)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("                    PAYMENT IMPORT")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("File: %s\n", filePath)
	fmt.Printf("Payments: %d\n", len(rows))
	fmt.Println()

	importer := payments.NewImporter(ctrl)
	importer.Progress = func(done, total int, r payments.Result) {
		fmt.Printf("[%d/%d] invoice %d %s %s - %s", done, total, r.Invoice, r.Row.Amount, r.Row.PaymentDate, r.Status)
		if r.Message != "" {
			fmt.Printf(" (%s)", r.Message)
		}
		fmt.Println()
	}

	results, importErr := importer.Import(ctx, rows)
	summary := payments.Summarize(results)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println("                RESULT")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Recorded: %d\n", summary.Recorded)
	if summary.Invalid > 0 {
		fmt.Printf("Invalid:  %d\n", summary.Invalid)
	}
	if summary.Rejected > 0 {
		fmt.Printf("Rejected: %d\n", summary.Rejected)
	}
	if skipped := len(rows) - len(results); skipped > 0 {
		fmt.Printf("Not run:  %d\n", skipped)
	}

	if importErr != nil {
		return handleDashboardError(importErr, log)
	}
	if summary.Failed() {
		return fmt.Errorf("%d of %d payments were not recorded", summary.Invalid+summary.Rejected, len(rows))
	}
	return nil
}

func findRow(screen *tui.Screen, invoiceID int64) (dashboard.Row, bool) {
	for _, row := range screen.Table().Rows {
		if row.InvoiceID == invoiceID {
			return row, true
		}
	}
	return dashboard.Row{}, false
}
