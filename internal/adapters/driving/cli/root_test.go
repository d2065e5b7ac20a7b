package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/backend"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/inspect"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/testutil/fakebackend"
)

// setupTestServices wires real services to a fake backend and resets
// every piece of command state a previous test may have changed.
func setupTestServices(t *testing.T) *fakebackend.Server {
	t.Helper()

	fake := fakebackend.New(t)
	client := backend.NewClient(backend.Config{BaseURL: fake.URL})

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	s := domain.DefaultClientSettings()
	s.BackendURL = fake.URL

	SetServices(&Services{
		Query:       services.NewQueryService(client, s.AllMarker),
		Collection:  services.NewCollectionService(client),
		Document:    services.NewDocumentService(client),
		Upload:      services.NewUploadService(client, inspect.New()),
		Health:      services.NewHealthService(client),
		ConfigStore: store,
		Settings:    s,
	})
	SetBootstrap(nil)

	resetFlags(rootCmd)
	promptInput = strings.NewReader("")
	isTerminal = func() bool { return false }

	t.Cleanup(func() {
		SetServices(&Services{Settings: domain.DefaultClientSettings()})
		SetBootstrap(nil)
		resetFlags(rootCmd)
	})
	return fake
}

// resetFlags restores every flag in the command tree to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns its output.
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Metadata(t *testing.T) {
	assert.Equal(t, "ragdesk", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "backend", "config-dir", "env-file", "log-file"} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name))
		})
	}
	assert.Equal(t, ".env", rootCmd.PersistentFlags().Lookup("env-file").DefValue)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"query", "collection", "document", "upload", "health", "config", "tui", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetup_CallsBootstrapWithFlags(t *testing.T) {
	fake := setupTestServices(t)

	var got Options
	SetBootstrap(func(opts Options) (*Services, error) {
		got = opts
		client := backend.NewClient(backend.Config{BaseURL: fake.URL})
		s := domain.DefaultClientSettings()
		s.BackendURL = fake.URL
		return &Services{Health: services.NewHealthService(client), Settings: s}, nil
	})

	out, err := run(t, nil, "--backend", fake.URL, "--config-dir", "/tmp/x", "health")
	require.NoError(t, err)
	assert.Equal(t, fake.URL, got.BackendURL)
	assert.Equal(t, "/tmp/x", got.ConfigDir)
	assert.Equal(t, ".env", got.EnvFile)
	assert.Contains(t, out, "healthy")
}

func TestSetup_BootstrapError(t *testing.T) {
	setupTestServices(t)
	SetBootstrap(func(Options) (*Services, error) {
		return nil, assert.AnError
	})

	_, err := run(t, nil, "health")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestErrNotConfigured(t *testing.T) {
	err := errNotConfigured("query")
	assert.EqualError(t, err, "query service not configured")
}

func TestCommands_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{Settings: domain.DefaultClientSettings()})

	tests := [][]string{
		{"query", "hello"},
		{"collection", "list"},
		{"document", "list"},
		{"upload", "text", "n"},
		{"health"},
		{"config", "set", "backend.url", "http://x"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := run(t, nil, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not configured")
		})
	}
}
