package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ardash/internal/api"
	"ardash/internal/config"
	"ardash/internal/dashboard"
	"ardash/internal/logger"
	"ardash/pkg/models"
)

var version = "1.0.0"

// appConfig is the configuration loaded by main before the command runs.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "ardash",
	Short: "ardash - accounts receivable dashboard",
	Long: `ardash is a terminal client for an accounts receivable backend.

It shows outstanding invoices with aging information, headline KPIs and the
top debtors, lets you filter by customer and date range, search and sort the
invoice list locally, and record payments against individual invoices.

The backend address is read from ARDASH_API_URL (default http://localhost:5000)
and can be overridden with --api-url.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI(cmd, args)
	},
}

// Execute runs the root command with cfg as the base configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if cfg != nil {
		appConfig = cfg
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides ARDASH_API_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP timeout per request, 0 for none (overrides ARDASH_HTTP_TIMEOUT)")
	addUIFlags(rootCmd)
}

// resolveConfig applies the persistent flag overrides to the loaded configuration.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := *appConfig

	if cmd.Flags().Changed("api-url") {
		cfg.APIURL, _ = cmd.Flags().GetString("api-url")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTPTimeout, _ = cmd.Flags().GetDuration("timeout")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// newClient creates the backend client from the resolved configuration.
func newClient(cmd *cobra.Command, log zerolog.Logger) (*api.Client, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("api_url", cfg.APIURL).
		Dur("timeout", cfg.HTTPTimeout).
		Msg("Backend client configured")

	return api.NewClient(cfg.APIURL, cfg.HTTPTimeout), nil
}

// newController wires a backend client and view into a dashboard controller.
func newController(cmd *cobra.Command, view dashboard.View, log zerolog.Logger) (*dashboard.Controller, error) {
	client, err := newClient(cmd, log)
	if err != nil {
		return nil, err
	}
	return dashboard.NewController(client, view), nil
}

// createCommandContext creates a context that is canceled on SIGINT/SIGTERM.
func createCommandContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// addFilterFlags registers the filter, search and sort flags shared by the
// headless commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("customer", "", "Customer ID to filter by")
	cmd.Flags().String("start", "", "Earliest invoice date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Latest invoice date (YYYY-MM-DD)")
	cmd.Flags().String("search", "", "Local search over invoice number and customer name")
	cmd.Flags().String("sort", "", "Sort column: "+fmt.Sprint(models.InvoiceFields))
	cmd.Flags().Bool("desc", false, "Sort descending")
}

// loadFiltered applies the filter flags, refreshes, then applies search and sort.
func loadFiltered(ctx context.Context, cmd *cobra.Command, ctrl *dashboard.Controller) error {
	customer, _ := cmd.Flags().GetString("customer")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	search, _ := cmd.Flags().GetString("search")
	sortKey, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")

	if sortKey != "" && !models.IsInvoiceField(sortKey) {
		return fmt.Errorf("%w: %q", dashboard.ErrUnknownSortKey, sortKey)
	}

	ctrl.SetCustomerFilter(customer)
	ctrl.SetStartDate(start)
	ctrl.SetEndDate(end)
	if err := ctrl.ApplyFilters(ctx); err != nil {
		return err
	}

	if err := ctrl.Search(search); err != nil {
		return err
	}
	if sortKey != "" {
		if err := ctrl.SortBy(sortKey); err != nil {
			return err
		}
		if desc {
			return ctrl.SortBy(sortKey)
		}
	}
	return nil
}

// handleDashboardError provides user-friendly error messages for backend and
// form failures.
func handleDashboardError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Dashboard operation failed")

	var verr *dashboard.ValidationError
	var apiErr *api.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("backend request timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.As(err, &verr):
		return fmt.Errorf("%s", verr.Message)
	case errors.Is(err, dashboard.ErrUnknownSortKey):
		return fmt.Errorf("%w. Valid columns: %v", err, models.InvoiceFields)
	case errors.Is(err, dashboard.ErrUnknownInvoice):
		return fmt.Errorf("%w. Check the invoice number and the active filters", err)
	case errors.Is(err, api.ErrPaymentRejected) && errors.As(err, &apiErr):
		return fmt.Errorf("payment rejected by backend: %s", apiErr.UserMessage())
	case errors.Is(err, api.ErrDecodeResponse):
		return fmt.Errorf("backend returned a response that could not be read. Is --api-url pointing at the receivables API?")
	case errors.As(err, &apiErr) && apiErr.StatusCode != 0:
		return fmt.Errorf("backend error on %s: %s", apiErr.Path, apiErr.UserMessage())
	case errors.As(err, &apiErr):
		return fmt.Errorf("could not reach backend: %w", apiErr.Err)
	default:
		return fmt.Errorf("dashboard operation failed: %w", err)
	}
}
