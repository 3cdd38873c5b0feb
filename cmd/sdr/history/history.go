// Package historycmder provides the history command for printing a chat
// session's server-side conversation.
package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/utils"
)

const historyLongDesc string = `Show the conversation of a chat session as the server knows it.

Defaults to the session saved by "sdr chat". Use --full to print whole
messages instead of one-line previews.

Examples:
  sdr history
  sdr history --session acme-outreach --full`

const historyShortDesc string = "Show a chat session's history"

type historyCommander struct {
	baseURL   string
	sessionID string
	full      bool
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSession, &cmder.sessionID)
	cmd.Flags().BoolVar(&cmder.full, "full", false, "Print whole messages")

	return cmd
}

func (c *historyCommander) run(cmd *cobra.Command) error {
	log := cmdutil.Logger(cmd)
	out := cmd.OutOrStdout()

	v, err := cmdutil.Viper(cmd, config.FlagBaseURL, config.FlagSession)
	if err != nil {
		return err
	}

	sessionID, err := cmdutil.ResolveSession(v, cmdutil.ConfigDir(cmd))
	if err != nil {
		return err
	}

	cl, err := cmdutil.NewClient(v, log)
	if err != nil {
		return err
	}

	msgs, err := cl.History(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Session: "), cliui.HashStyle.Render(sessionID))
	fmt.Fprintf(out, "  %s  %s\n\n", cliui.KeyStyle.Render("Messages:"), cliui.NameStyle.Render(fmt.Sprint(len(msgs))))

	for i, msg := range msgs {
		label := cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1))
		role := cliui.RoleStyle.Render("[" + msg.Role + "]")

		if !c.full {
			fmt.Fprintf(out, "  %s %s %s\n", label, role, cliui.PreviewStyle.Render(utils.Truncate(utils.OneLine(msg.Content), 72)))
			continue
		}

		fmt.Fprintf(out, "  %s %s\n", label, role)
		if err := cliui.WriteMarkdown(out, msg.Content); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out)
	return nil
}
