// Package sdrcmder
package sdrcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/sdr/cmd/sdr/chat"
	clearcmder "github.com/papercomputeco/sdr/cmd/sdr/clear"
	configcmder "github.com/papercomputeco/sdr/cmd/sdr/config"
	historycmder "github.com/papercomputeco/sdr/cmd/sdr/history"
	researchcmder "github.com/papercomputeco/sdr/cmd/sdr/research"
	servecmder "github.com/papercomputeco/sdr/cmd/sdr/serve"
	statuscmder "github.com/papercomputeco/sdr/cmd/sdr/status"
	transcriptscmder "github.com/papercomputeco/sdr/cmd/sdr/transcripts"
	versioncmder "github.com/papercomputeco/sdr/cmd/sdr/version"
)

const sdrLongDesc string = `sdr is the command line client for the SDR agent.

Talk to the agent:
  sdr chat                        Interactive chat session
  sdr research --company Acme     Research a company or prospect
  sdr history                     Show the session's conversation
  sdr clear                       Clear the session

Inspect and configure:
  sdr status                      Server health and saved session
  sdr transcripts list            Browse recorded turns
  sdr config list                 Show configuration

Run services:
  sdr serve dev                   Scripted development server
  sdr serve mcp                   MCP bridge to the SDR server`

const sdrShortDesc string = "sdr - SDR agent client"

func NewSDRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sdr",
		Short:        sdrShortDesc,
		Long:         sdrLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .sdr/ directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(researchcmder.NewResearchCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(clearcmder.NewClearCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(transcriptscmder.NewTranscriptsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
