// Package cli provides the ragdesk command line interface built on cobra.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Global flags.
var (
	verbose    bool
	backendURL string
	configDir  string
	envFile    string
	logFile    string
)

// Services holds everything the commands drive.
type Services struct {
	Query      driving.QueryService
	Collection driving.CollectionService
	Document   driving.DocumentService
	Upload     driving.UploadService
	Health     driving.HealthService

	// ConfigStore backs `config set`. Optional.
	ConfigStore driven.ConfigStore

	// Settings are the resolved client settings.
	Settings domain.ClientSettings
}

// Options are the parsed global flags handed to the bootstrap function.
type Options struct {
	BackendURL string
	ConfigDir  string
	EnvFile    string
}

// Bootstrap builds services once global flags are known.
type Bootstrap func(opts Options) (*Services, error)

var bootstrap Bootstrap

// Services used by the commands. Set by SetServices.
var (
	queryService      driving.QueryService
	collectionService driving.CollectionService
	documentService   driving.DocumentService
	uploadService     driving.UploadService
	healthService     driving.HealthService
	configStore       driven.ConfigStore
	settings          = domain.DefaultClientSettings()
)

// logCloser closes the --log-file handle when the command finishes.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "ragdesk",
	Short: "Query and manage document collections from the terminal",
	Long: `ragdesk is a terminal client for a retrieval-augmented document backend.

Upload PDF, text and Markdown files into collections, ask questions scoped to
one or more collections, and inspect how documents were chunked. Run
'ragdesk tui' for the interactive interface.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&backendURL, "backend", "", "backend URL (overrides config)")
	flags.StringVar(&configDir, "config-dir", "", "config directory (default ~/.ragdesk)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file with RAGDESK_* settings")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// SetVersion sets the version reported by `ragdesk version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services from global flags.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices sets the services used by commands.
func SetServices(s *Services) {
	queryService = s.Query
	collectionService = s.Collection
	documentService = s.Document
	uploadService = s.Upload
	healthService = s.Health
	configStore = s.ConfigStore
	settings = s.Settings
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

// setup configures logging and builds services before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logger.SetOutput(f)
		logCloser = f
	}

	if bootstrap == nil {
		return nil
	}

	svcs, err := bootstrap(Options{
		BackendURL: backendURL,
		ConfigDir:  configDir,
		EnvFile:    envFile,
	})
	if err != nil {
		return err
	}
	SetServices(svcs)
	logger.Debug("Command %q using backend %s", cmd.CommandPath(), settings.BackendURL)
	return nil
}

func closeLog() {
	if logCloser == nil {
		return
	}
	logger.SetOutput(os.Stderr)
	logCloser.Close() //nolint:errcheck
	logCloser = nil
}

// errNotConfigured reports a service the bootstrap did not provide.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}

