package transcriptscmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/pkg/cliui"
)

const pruneLongDesc string = `Delete every recorded turn of a session.

Only the local transcript store is touched. The server-side conversation
is dropped with "sdr clear".

Examples:
  sdr transcripts prune --session acme-outreach`

const pruneShortDesc string = "Delete the recorded turns of a session"

func newPruneCmd() *cobra.Command {
	var (
		store     storeFlagValues
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: pruneShortDesc,
		Long:  pruneLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessionID == "" {
				return errors.New("--session is required")
			}

			driver, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer driver.Close()

			n, err := driver.DeleteSession(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("pruning session %q: %w", sessionID, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Deleted %d turns of %s\n\n",
				cliui.SuccessMark,
				n,
				cliui.NameStyle.Render(sessionID),
			)
			return nil
		},
	}

	addStoreFlags(cmd, &store)
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session whose turns are deleted")

	return cmd
}
