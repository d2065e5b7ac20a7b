package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errNotConfigured("health")
	}

	status, err := healthService.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend %s unreachable: %w", settings.BackendURL, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Backend %s: %s\n", settings.BackendURL, status)
	return nil
}
