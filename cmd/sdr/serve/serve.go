// Package servecmder provides the serve command with subcommands for running
// the sdr services.
package servecmder

import (
	"github.com/spf13/cobra"

	devcmder "github.com/papercomputeco/sdr/cmd/sdr/serve/dev"
	mcpcmder "github.com/papercomputeco/sdr/cmd/sdr/serve/mcp"
)

const serveLongDesc string = `Run sdr services.

Use subcommands to run a service:
  sdr serve dev    Run the scripted development server
  sdr serve mcp    Run the MCP bridge to the SDR server`

const serveShortDesc string = "Run sdr services"

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
	}

	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")

	cmd.AddCommand(devcmder.NewDevCmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd())

	return cmd
}
