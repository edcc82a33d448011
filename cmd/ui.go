package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ardash/internal/logger"
	"ardash/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive dashboard",
	Long: `Open the full-screen receivables dashboard.

The dashboard loads the customer list, then fetches invoices, KPIs and the top
debtors. Filters are sent to the backend when applied; search and column sorting
work on the loaded invoices without further requests.

Keys:
  tab / shift+tab   move between table, customer, from, to and search
  left / right      choose a customer (customer field)
  enter             apply filters
  ctrl+r            reset filters and search
  1-8               sort by column, again to reverse
  up / down         move the row cursor
  p                 record a payment for the selected invoice
  esc               close the payment dialog
  q / ctrl+c        quit

Logs are written to --log-file while the dashboard owns the terminal.`,
	Example: `  # Open the dashboard against the default backend
  ardash ui

  # Use another backend and keep debug logs
  LOG_LEVEL=debug ardash ui --api-url http://ar.internal:5000 --log-file /tmp/ardash.log`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
	addUIFlags(uiCmd)
}

func addUIFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-file", "ardash.log", `Log file while the dashboard runs ("none" to disable)`)
}

func runUI(cmd *cobra.Command, args []string) error {
	logFile, _ := cmd.Flags().GetString("log-file")

	logCfg := appConfig.GetLoggerConfig()
	logCfg.Output = logFile
	if err := logger.Setup(logCfg); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logger.Close()

	log := logger.WithComponent("ui")
	log.Info().
		Str("version", version).
		Str("log_file", logFile).
		Msg("Starting dashboard")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen := tui.NewScreen(tui.DefaultStyles())
	ctrl, err := newController(cmd, screen, log)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := tui.Run(ctx, ctrl, screen); err != nil {
		log.Error().Err(err).Msg("Dashboard exited with error")
		return err
	}

	log.Info().Msg("Dashboard closed")
	return nil
}
