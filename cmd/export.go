package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ardash/internal/export"
	"ardash/internal/logger"
	"ardash/internal/tui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the invoice table and KPIs to an Excel workbook",
	Long: `Fetch the dashboard with the given filters and write the derived invoice
table and the KPI summary to an .xlsx workbook.

The "Invoices" sheet holds the rows exactly as the dashboard shows them, after
search and sort, with overdue invoices highlighted. The "Summary" sheet holds
the four KPIs.`,
	Example: `  # Export everything
  ardash export -o receivables.xlsx

  # Export one customer's invoices, largest balance first
  ardash export -o acme.xlsx --customer 7 --sort outstanding --desc`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addFilterFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output .xlsx file (required)")
	_ = exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	outputPath, _ := cmd.Flags().GetString("output")
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		log.Warn().
			Str("output", outputPath).
			Msg("Output file does not have .xlsx extension")
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen := tui.NewScreen(tui.DefaultStyles())
	ctrl, err := newController(cmd, screen, log)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := loadFiltered(ctx, cmd, ctrl); err != nil {
		return handleDashboardError(err, log)
	}

	table, err := ctrl.Table()
	if err != nil {
		return handleDashboardError(err, log)
	}
	summary, _ := ctrl.Summary()

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("output", outputPath).
			Msg("Failed to create output file")
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close output file")
		}
	}()

	if err := export.WriteXLSX(file, table.Rows, summary); err != nil {
		log.Error().Err(err).Msg("Failed to write workbook")
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	log.Info().
		Str("output", outputPath).
		Int("rows", len(table.Rows)).
		Msg("Workbook exported")
	fmt.Printf("Exported %d invoices to %s\n", len(table.Rows), outputPath)
	return nil
}
