package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/chunks"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"documents", "doc"},
	Short:   "Manage uploaded documents",
	Long:    `List, search, and delete documents, or inspect how a document was chunked.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every document",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "List documents whose filename or collection contains a term",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSearch,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [id]",
	Short: "Show the chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

func init() {
	documentListCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	documentSearchCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	documentChunksCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	documentDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentSearchCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentChunksCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	return outputDocuments(cmd, docs)
}

func runDocumentSearch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	docs, err := documentService.Search(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to search documents: %w", err)
	}
	return outputDocuments(cmd, docs)
}

func outputDocuments(cmd *cobra.Command, docs []domain.Document) error {
	if jsonOutput {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents found.")
		return nil
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.Filename,
			d.CollectionName,
			strconv.Itoa(d.ChunkCount),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "Filename", "Collection", "Chunks"}, rows)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	if err := confirm(cmd, fmt.Sprintf("Delete document %d?", id), assumeYes); err != nil {
		return err
	}

	if err := documentService.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Document %d deleted.\n", id)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	dc, err := documentService.Chunks(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, dc)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d chunks)\n\n", dc.Filename, len(dc.Chunks))
	for _, c := range dc.Chunks {
		fmt.Fprintf(out, "  Chunk %d\n", c.Number)
		fmt.Fprintf(out, "    Start:     %s\n", c.Start)
		fmt.Fprintf(out, "    End:       %s\n", c.End)
		fmt.Fprintf(out, "    Embedding: %s\n\n", chunks.FormatEmbedding(c.EmbeddingPreview))
	}
	return nil
}

func parseDocumentID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document id %q", s)
	}
	return id, nil
}
