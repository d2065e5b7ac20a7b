package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client settings",
	Long: `Settings are read from ~/.ragdesk/config.toml, a .env file, and
RAGDESK_* environment variables, later sources winning.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Persist a setting to the config file",
	Long: `Persist a setting to the config file.

Keys:
  ` + strings.Join(config.Keys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configShowCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	keys := config.Keys()

	if jsonOutput {
		values := make(map[string]string, len(keys))
		for _, k := range keys {
			values[k] = config.Value(settings, k)
		}
		return printJSON(cmd, values)
	}

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, config.Value(settings, k), config.EnvName(k), config.Help(k)})
	}
	printTable(cmd.OutOrStdout(), []string{"Key", "Value", "Env", "Description"}, rows)

	if p, ok := configStore.(interface{ Path() string }); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", p.Path())
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errNotConfigured("config")
	}

	key, value := args[0], args[1]
	if err := config.Set(configStore, key, value); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}
