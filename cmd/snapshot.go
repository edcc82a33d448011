package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ardash/internal/dashboard"
	"ardash/internal/logger"
	"ardash/internal/tui"
	"ardash/pkg/models"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the dashboard once and exit",
	Long: `Fetch invoices, KPIs and the top debtors once and print the dashboard.

Filters are sent to the backend exactly as the interactive dashboard sends them.
Search and sort are applied locally afterwards. The text format prints the same
panels as the interactive dashboard; the JSON format prints the derived view
models for scripting.`,
	Example: `  # Print the dashboard
  ardash snapshot

  # Overdue-heavy customers first, as JSON
  ardash snapshot --sort outstanding --desc --format json

  # One customer in Q1, saved to a file
  ardash snapshot --customer 7 --start 2024-01-01 --end 2024-03-31 -o q1.txt`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

// SnapshotOutput is the JSON form of a dashboard snapshot.
type SnapshotOutput struct {
	Filters    models.FilterCriteria `json:"filters"`
	Search     string                `json:"search,omitempty"`
	SortKey    string                `json:"sort_key,omitempty"`
	SortAsc    bool                  `json:"sort_asc"`
	Summary    SnapshotSummary       `json:"summary"`
	Invoices   []SnapshotRow         `json:"invoices"`
	Loaded     int                   `json:"loaded"`
	TopDebtors []models.TopDebtor    `json:"top_debtors"`
	Metadata   SnapshotMetadata      `json:"metadata"`
}

type SnapshotSummary struct {
	TotalInvoiced    string `json:"total_invoiced"`
	TotalReceived    string `json:"total_received"`
	TotalOutstanding string `json:"total_outstanding"`
	PercentOverdue   string `json:"percent_overdue"`
}

type SnapshotRow struct {
	InvoiceID    int64  `json:"invoice_id"`
	CustomerName string `json:"customer_name"`
	InvoiceDate  string `json:"invoice_date"`
	DueDate      string `json:"due_date"`
	Amount       string `json:"amount"`
	TotalPaid    string `json:"total_paid"`
	Outstanding  string `json:"outstanding"`
	AgingBucket  string `json:"aging_bucket"`
	Overdue      bool   `json:"overdue"`
}

type SnapshotMetadata struct {
	APIURL      string        `json:"api_url"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	addFilterFlags(snapshotCmd)
	snapshotCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	snapshotCmd.Flags().String("format", "text", "Output format: text or json")
	snapshotCmd.Flags().Int("width", 100, "Width of the text rendering")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("snapshot")

	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	width, _ := cmd.Flags().GetInt("width")

	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q: use text or json", format)
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen := tui.NewScreen(tui.DefaultStyles())
	ctrl, err := newController(cmd, screen, log)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	start := time.Now()
	if err := loadFiltered(ctx, cmd, ctrl); err != nil {
		return handleDashboardError(err, log)
	}

	table := screen.Table()
	log.Info().
		Int("rows", len(table.Rows)).
		Int("loaded", table.Loaded).
		Dur("duration", time.Since(start)).
		Msg("Snapshot loaded")

	var data []byte
	switch format {
	case "json":
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		output := buildSnapshotOutput(ctrl, table, cfg.APIURL, time.Since(start))
		data, err = json.MarshalIndent(output, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal snapshot")
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		data = append(data, '\n')
	default:
		data = []byte(screen.Render(width) + "\n")
	}

	return writeOutput(data, outputPath, log)
}

func buildSnapshotOutput(ctrl *dashboard.Controller, table dashboard.Table, apiURL string, elapsed time.Duration) SnapshotOutput {
	criteria, _ := ctrl.Filters().Criteria()
	summary, _ := ctrl.Summary()

	output := SnapshotOutput{
		Filters: criteria,
		Search:  table.Search,
		SortKey: table.SortKey,
		SortAsc: table.SortAsc,
		Summary: SnapshotSummary{
			TotalInvoiced:    summary.TotalInvoiced,
			TotalReceived:    summary.TotalReceived,
			TotalOutstanding: summary.TotalOutstanding,
			PercentOverdue:   summary.PercentOverdue,
		},
		Invoices:   make([]SnapshotRow, len(table.Rows)),
		Loaded:     table.Loaded,
		TopDebtors: ctrl.TopDebtors(),
		Metadata: SnapshotMetadata{
			APIURL:      apiURL,
			GeneratedAt: time.Now(),
			Duration:    elapsed,
		},
	}

	for i, r := range table.Rows {
		output.Invoices[i] = SnapshotRow(r)
	}
	if output.TopDebtors == nil {
		output.TopDebtors = []models.TopDebtor{}
	}

	return output
}

// writeOutput writes data to outputPath, or stdout when it is empty.
func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output", outputPath).
		Int("bytes", len(data)).
		Msg("Results saved to file")
	return nil
}
