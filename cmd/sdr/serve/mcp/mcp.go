// Package mcpcmder provides the cobra command running the MCP bridge.
package mcpcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/mcp"
	"github.com/papercomputeco/sdr/pkg/config"
)

type mcpCommander struct {
	listen        string
	baseURL       string
	recorderFlags config.RecorderFlagValues
}

const mcpLongDesc string = `Run the MCP bridge to the SDR server.

The bridge exposes the SDR agent as MCP tools over streamable HTTP at /mcp:
research_company, research_prospect and chat, plus list_turns when turns are
recorded. Every tool call is recorded like a CLI turn.

Examples:
  sdr serve mcp
  sdr serve mcp --listen :5002 --base-url http://localhost:5001/api
  sdr serve mcp --transcript-provider postgres --postgres postgres://localhost/sdr`

const mcpShortDesc string = "Run the MCP bridge"

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagMCPListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddRecorderFlags(cmd, config.Flags, &cmder.recorderFlags)

	return cmd
}

func (c *mcpCommander) run(cmd *cobra.Command) error {
	log, closeLog, err := cmdutil.ServerLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	flags := append([]string{config.FlagMCPListen, config.FlagBaseURL}, config.RecorderFlags...)
	v, err := cmdutil.Viper(cmd, flags...)
	if err != nil {
		return err
	}

	cl, err := cmdutil.NewClient(v, log)
	if err != nil {
		return err
	}

	store, err := cmdutil.RecordingStore(cmd.Context(), v, cmdutil.ConfigDir(cmd))
	if err != nil {
		return fmt.Errorf("opening transcript store: %w", err)
	}

	pool, err := cmdutil.NewRecorderWithStore(v, store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warn("closing recorder", "error", err)
		}
	}()

	server, err := mcp.NewServer(mcp.Config{
		Client:      cl,
		Transcripts: store,
		Recorder:    pool,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	host := mcp.NewHost(mcp.HostConfig{ListenAddr: v.GetString("mcp.listen")}, server)

	log.Info("bridging MCP to SDR server", "base_url", cl.BaseURL())
	return cmdutil.Serve(cmd.Context(), log, host.Run, host.Shutdown)
}
