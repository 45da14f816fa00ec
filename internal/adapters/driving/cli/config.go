package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/core/services"
)

var errNoConfigStore = errors.New("config store not configured")

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration",
	Long: `Reads and writes ~/.valuesref/config.toml.

Keys:
  api.base_url           Artifact Hub endpoint
  fetch.max_retries      retries of transient fetch failures
  fetch.rate_per_second  outgoing request rate
  github.token           token for GitHub reads
  cache.enabled          cache fetched schemas
  cache.ttl_hours        hours a cached schema is served
  viewer.search_limit    path suggestions shown
  data.dir               directory of the database`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configStore == nil {
			return errNoConfigStore
		}
		v, ok := configStore.Get(args[0])
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		cmd.Println(v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configStore == nil {
			return errNoConfigStore
		}
		key := args[0]
		if !slices.Contains(services.SettingKeys(), key) {
			return fmt.Errorf("unknown key %q", key)
		}
		if err := configStore.Set(key, parseValue(args[1])); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
		cmd.Printf("%s = %s\n", key, args[1])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errNoConfigStore
		}
		keys := configStore.Keys()
		if len(keys) == 0 {
			cmd.Println("No configuration set.")
			return nil
		}
		for _, k := range keys {
			v, _ := configStore.Get(k)
			if k == services.KeyGitHubToken {
				v = "********"
			}
			cmd.Printf("%s = %v\n", k, v)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errNoConfigStore
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// parseValue converts a command line value to the TOML type it spells.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}
