package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/dropfolder"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var (
	uploadCollection string
	uploadTextFile   string
	watchSettle      = dropfolder.DefaultSettle
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Add documents to a collection",
	Long: `Upload PDF, TXT, or MD files, raw text, or everything written to a
watched folder.

Examples:
  ragdesk upload file report.pdf -c Finance
  echo "meeting notes" | ragdesk upload text notes.txt
  ragdesk upload watch ~/inbox -c Inbox`,
}

var uploadFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Upload a PDF, TXT, or MD file",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadFile,
}

var uploadTextCmd = &cobra.Command{
	Use:   "text [name]",
	Short: "Upload raw text read from --file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadText,
}

var uploadWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload every accepted file written to a directory",
	Long: `Watches a directory and uploads each PDF, TXT, or MD file once it stops
changing. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runUploadWatch,
}

func init() {
	for _, c := range []*cobra.Command{uploadFileCmd, uploadTextCmd, uploadWatchCmd} {
		c.Flags().StringVarP(&uploadCollection, "collection", "c", domain.DefaultCollectionName, "target collection")
		uploadCmd.AddCommand(c)
	}
	uploadTextCmd.Flags().StringVarP(&uploadTextFile, "file", "f", "", "read text from this file instead of stdin")
	uploadWatchCmd.Flags().DurationVar(&watchSettle, "settle", dropfolder.DefaultSettle, "how long a file must stay unchanged")
	rootCmd.AddCommand(uploadCmd)
}

func runUploadFile(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errNotConfigured("upload")
	}

	preview, err := uploadService.Inspect(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploading %s to %q...\n", preview.Describe(), uploadCollection)

	if err := uploadService.UploadFile(cmd.Context(), args[0], uploadCollection); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s.\n", preview.Name)
	return nil
}

func runUploadText(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errNotConfigured("upload")
	}

	var (
		data []byte
		err  error
	)
	if uploadTextFile != "" {
		data, err = os.ReadFile(uploadTextFile)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}

	name := args[0]
	if err := uploadService.UploadText(cmd.Context(), name, string(data), uploadCollection); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes) to %q.\n", name, len(data), uploadCollection)
	return nil
}

func runUploadWatch(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errNotConfigured("upload")
	}

	folder := dropfolder.New(args[0], uploadCollection, uploadService).WithSettle(watchSettle)
	defer folder.Close()

	results, err := folder.Watch(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s, uploading to %q. Press Ctrl+C to stop.\n", folder.Dir(), uploadCollection)

	uploaded, failed := 0, 0
	for r := range results {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			failed++
			logger.Warn("upload %s: %v", r.Path, r.Err)
			fmt.Fprintf(out, "  ✗ %s: %s\n", name, domain.UserMessage(r.Err, "upload failed"))
			continue
		}
		uploaded++
		fmt.Fprintf(out, "  ✓ %s\n", name)
	}

	fmt.Fprintf(out, "Stopped. %d uploaded, %d failed.\n", uploaded, failed)
	return nil
}
