package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// assumeYes skips delete confirmations.
var assumeYes bool

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"collections"},
	Short:   "Manage collections",
	Long:    `List, create, or delete document collections.`,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with document and chunk counts",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a collection and all its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDelete,
}

func init() {
	collectionListCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	collectionDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errNotConfigured("collection")
	}

	stats, err := collectionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, stats)
	}

	if len(stats) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No collections found.")
		return nil
	}

	rows := make([][]string, 0, len(stats))
	docs, chunks := 0, 0
	for _, c := range stats {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.DocumentCount), strconv.Itoa(c.ChunkCount)})
		docs += c.DocumentCount
		chunks += c.ChunkCount
	}
	printTable(cmd.OutOrStdout(), []string{"Collection", "Documents", "Chunks"}, rows)
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %d collections, %d documents, %d chunks\n", len(stats), docs, chunks)
	return nil
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errNotConfigured("collection")
	}

	if err := collectionService.Create(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Collection %q created.\n", args[0])
	return nil
}

func runCollectionDelete(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errNotConfigured("collection")
	}

	name := args[0]
	if err := confirm(cmd, fmt.Sprintf("Delete collection %q and all its documents?", name), assumeYes); err != nil {
		return err
	}

	if err := collectionService.Delete(cmd.Context(), name); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Collection %q deleted.\n", name)
	return nil
}
