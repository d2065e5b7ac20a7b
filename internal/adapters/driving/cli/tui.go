package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface.

Sections: Query, Collections, Documents (with chunk detail), and Upload.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Submit
  Tab      - Next field
  Esc      - Back
  ?        - Help (from the menu)
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	// Log lines would corrupt the alternate screen.
	if logFile == "" {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	ports := &tui.Ports{
		Query:      queryService,
		Collection: collectionService,
		Document:   documentService,
		Upload:     uploadService,
		Health:     healthService,
		Settings:   settings,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
