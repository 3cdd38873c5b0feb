// Package statuscmder provides the status command for displaying the
// server, the saved chat session and the transcript store.
package statuscmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/dotdir"
	"github.com/papercomputeco/sdr/pkg/utils"
)

const statusLongDesc string = `Show the current sdr state.

Checks that the SDR server answers its health endpoint, then shows the chat
session saved in the .sdr/ directory (or ~/.sdr/) with a preview of its
messages, and where turns are recorded.

If no session is saved, the next "sdr chat" starts a new one.

Examples:
  sdr status
  sdr status --base-url http://localhost:5001/api`

const statusShortDesc string = "Show server and session state"

func NewStatusCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &baseURL)

	return cmd
}

func runStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	configDir := cmdutil.ConfigDir(cmd)

	v, err := cmdutil.Viper(cmd, config.FlagBaseURL)
	if err != nil {
		return err
	}

	cl, err := cmdutil.NewClient(v, cmdutil.Logger(cmd))
	if err != nil {
		return err
	}

	health := "up"
	healthErr := cl.Health(cmd.Context())
	if healthErr != nil {
		health = healthErr.Error()
	}

	fmt.Fprintf(out, "\n  %s  %s %s\n",
		cliui.KeyStyle.Render("Server:     "),
		cliui.NameStyle.Render(cl.BaseURL()),
		cliui.Mark(healthErr),
	)
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Health:     "), cliui.DimStyle.Render(health))

	cfg, err := cmdutil.TranscriptConfig(v, configDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Transcripts:"), cliui.ValueStyle.Render(describeStore(cfg)))

	state, err := dotdir.NewManager().LoadSession(configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	printSession(out, state)
	return nil
}

// describeStore names the transcript store without revealing a DSN.
func describeStore(cfg config.TranscriptConfig) string {
	switch cfg.Provider {
	case config.ProviderNone:
		return "disabled"
	case config.ProviderPostgres:
		return "postgres"
	default:
		return "sqlite " + cfg.SQLitePath
	}
}

func printSession(out io.Writer, state *dotdir.SessionState) {
	if state == nil {
		fmt.Fprintf(out, "\n  %s No saved session. Next chat will start a new session.\n\n", cliui.DimStyle.Render("●"))
		return
	}

	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Session:    "), cliui.HashStyle.Render(state.SessionID))
	if !state.StartedAt.IsZero() {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Started:    "), cliui.DimStyle.Render(state.StartedAt.Local().Format("2006-01-02 15:04")))
	}
	fmt.Fprintf(out, "  %s  %s\n\n", cliui.KeyStyle.Render("Messages:   "), cliui.NameStyle.Render(strconv.Itoa(len(state.Messages))))

	for i, msg := range state.Messages {
		fmt.Fprintf(out, "  %s %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.RoleStyle.Render("["+msg.Role+"]"),
			cliui.PreviewStyle.Render(utils.Truncate(utils.OneLine(msg.Content), 72)),
		)
	}

	if len(state.Messages) > 0 {
		fmt.Fprintln(out)
	}
}
