// Command ragdesk is a terminal client for a retrieval-augmented document backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/backend"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/inspect"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragdesk/internal/config"
	"github.com/custodia-labs/ragdesk/internal/core/services"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap resolves settings and wires the core services to the backend client.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	settings, err := config.Load(store, opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if url := strings.TrimSpace(opts.BackendURL); url != "" {
		settings.BackendURL = url
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	client := backend.NewClient(backend.ConfigFromSettings(settings))

	return &cli.Services{
		Query:       services.NewQueryService(client, settings.AllMarker),
		Collection:  services.NewCollectionService(client),
		Document:    services.NewDocumentService(client),
		Upload:      services.NewUploadService(client, inspect.New()),
		Health:      services.NewHealthService(client),
		ConfigStore: store,
		Settings:    settings,
	}, nil
}
