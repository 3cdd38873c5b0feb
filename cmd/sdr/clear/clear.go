// Package clearcmder provides the clear command for dropping a chat
// session's conversation.
package clearcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/dotdir"
)

const clearLongDesc string = `Clear the conversation of a chat session.

Drops the session's history on the server. When the session is the one
saved in the .sdr/ directory, the saved state is removed too and the next
"sdr chat" starts a new session.

Examples:
  sdr clear
  sdr clear --session acme-outreach`

const clearShortDesc string = "Clear a chat session"

type clearCommander struct {
	baseURL   string
	sessionID string
}

func NewClearCmd() *cobra.Command {
	cmder := &clearCommander{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: clearShortDesc,
		Long:  clearLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSession, &cmder.sessionID)

	return cmd
}

func (c *clearCommander) run(cmd *cobra.Command) error {
	log := cmdutil.Logger(cmd)
	configDir := cmdutil.ConfigDir(cmd)
	out := cmd.OutOrStdout()

	v, err := cmdutil.Viper(cmd, config.FlagBaseURL, config.FlagSession)
	if err != nil {
		return err
	}

	sessionID, err := cmdutil.ResolveSession(v, configDir)
	if err != nil {
		return err
	}

	cl, err := cmdutil.NewClient(v, log)
	if err != nil {
		return err
	}

	if _, err := cl.Clear(cmd.Context(), sessionID); err != nil {
		return err
	}

	manager := dotdir.NewManager()
	saved, err := manager.LoadSession(configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}
	if saved != nil && saved.SessionID == sessionID {
		if err := manager.ClearSession(configDir); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n  %s Cleared session %s\n\n", cliui.SuccessMark, cliui.HashStyle.Render(sessionID))
	return nil
}
