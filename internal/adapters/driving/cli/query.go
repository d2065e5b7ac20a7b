package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	queryCollections []string
	queryFull        bool
	queryLimit       int
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Find the chunks most similar to a query",
	Long: `Sends a similarity query to the backend and prints the matching chunks,
closest first.

By default every collection is searched. Use --collections to restrict the
query; names are sent comma-separated in the order given.

Examples:
  ragdesk query "what is the refund policy?"
  ragdesk query "quarterly revenue" -c Finance,Reports --full`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringSliceVarP(&queryCollections, "collections", "c", nil, "collections to search (default all)")
	queryCmd.Flags().BoolVar(&queryFull, "full", false, "print full chunk content instead of a preview")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (0 = all)")
	queryCmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errNotConfigured("query")
	}

	scope := domain.ScopeOf(queryCollections...)
	results, err := queryService.Query(cmd.Context(), args[0], scope)
	if err != nil {
		return err
	}
	if queryLimit > 0 && len(results) > queryLimit {
		results = results[:queryLimit]
	}

	if jsonOutput {
		return printJSON(cmd, results)
	}
	return outputQueryResults(cmd, scope, results)
}

func outputQueryResults(cmd *cobra.Command, scope domain.Scope, results []domain.QueryResult) error {
	out := cmd.OutOrStdout()

	if len(results) == 0 {
		fmt.Fprintf(out, "No results in %s.\n", scope.Label())
		return nil
	}

	fmt.Fprintf(out, "%d results in %s:\n\n", len(results), scope.Label())
	for i := range results {
		r := &results[i]
		// Format: [N] filename · collection  chunk C  distance D
		fmt.Fprintf(out, "  [%d] %s · %s  chunk %d  distance %s\n",
			i+1, r.DocumentFilename, r.CollectionName, r.ChunkNumber, r.FormattedDistance())

		content := r.Preview()
		if queryFull {
			content = r.Content
		}
		fmt.Fprintf(out, "      %s\n\n", content)
	}
	return nil
}
