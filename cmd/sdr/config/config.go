// Package configcmder provides the config command for managing persistent
// sdr configuration stored in the .sdr/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/config"
)

const configLongDesc string = `Manage persistent sdr configuration.

Configuration is stored as config.toml in the .sdr/ directory and provides
default values for command flags. CLI flags and SDR_* environment variables
always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  client.base_url, client.session_id, client.timeout,
  transcript.provider, transcript.sqlite_path, transcript.postgres_dsn,
  eventstream.provider, eventstream.brokers, eventstream.topic,
  devserver.listen, devserver.delay, mcp.listen

Use subcommands to get, set, or list configuration values:
  sdr config set <key> <value>    Set a configuration value
  sdr config get <key>            Get a configuration value
  sdr config list                 List all configuration values

Examples:
  sdr config set client.base_url http://localhost:5001/api
  sdr config set transcript.provider postgres
  sdr config get client.timeout
  sdr config list`

const configShortDesc string = "Manage persistent sdr configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func validKeyArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func printTarget(out io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(out, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
