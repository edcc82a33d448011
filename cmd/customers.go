package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ardash/internal/logger"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List customers and their IDs",
	Long: `List the customers known to the backend. The IDs are what --customer
expects in the snapshot and export commands.`,
	Example: `  ardash customers
  ardash customers --format json -o customers.json`,
	Args: cobra.NoArgs,
	RunE: runCustomers,
}

func init() {
	rootCmd.AddCommand(customersCmd)

	customersCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	customersCmd.Flags().String("format", "text", "Output format: text or json")
}

func runCustomers(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customers")

	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	client, err := newClient(cmd, log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	customers, err := client.Customers(ctx)
	if err != nil {
		return handleDashboardError(err, log)
	}

	log.Info().Int("customers", len(customers)).Msg("Customers loaded")

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(customers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal customers: %w", err)
		}
		data = append(data, '\n')
	case "text":
		var b strings.Builder
		fmt.Fprintf(&b, "%8s  %s\n", "ID", "NAME")
		for _, c := range customers {
			fmt.Fprintf(&b, "%8d  %s\n", c.CustomerID, c.Name)
		}
		data = []byte(b.String())
	default:
		return fmt.Errorf("unsupported format %q: use text or json", format)
	}

	return writeOutput(data, outputPath, log)
}
