package transcriptscmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/utils"
)

const listLongDesc string = `List recorded turns, newest first.

Examples:
  sdr transcripts list
  sdr transcripts list --session acme-outreach --limit 5
  sdr transcripts list --json`

const listShortDesc string = "List recorded turns"

type listCommander struct {
	store     storeFlagValues
	sessionID string
	limit     int
	json      bool
}

func newListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	addStoreFlags(cmd, &cmder.store)
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Only list turns of this session")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Maximum number of turns (0 lists all)")
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print one JSON object per turn")

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command) error {
	if c.limit < 0 {
		return fmt.Errorf("invalid --limit %d", c.limit)
	}

	driver, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer driver.Close()

	turns, err := driver.List(cmd.Context(), transcript.ListOptions{
		SessionID: c.sessionID,
		Limit:     c.limit,
	})
	if err != nil {
		return fmt.Errorf("listing turns: %w", err)
	}

	out := cmd.OutOrStdout()
	if c.json {
		enc := json.NewEncoder(out)
		for _, t := range turns {
			if err := enc.Encode(t); err != nil {
				return err
			}
		}
		return nil
	}

	printTurns(out, turns)
	return nil
}

func printTurns(out io.Writer, turns []*transcript.Turn) {
	if len(turns) == 0 {
		fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No turns recorded."))
		return
	}

	fmt.Fprintln(out)
	for _, t := range turns {
		fmt.Fprintf(out, "  %s %s %s %s %s\n",
			cliui.Mark(turnErr(t)),
			cliui.HashStyle.Render(t.ID.String()[:8]),
			cliui.DimStyle.Render(t.CreatedAt.Local().Format("2006-01-02 15:04")),
			cliui.RoleStyle.Render(fmt.Sprintf("%-8s", t.Kind)),
			cliui.NameStyle.Render(t.SessionID),
		)

		detail := cliui.FormatDuration(t.Duration)
		if len(t.Tools) > 0 {
			detail += ", " + strings.Join(t.Tools, ", ")
		}
		fmt.Fprintf(out, "    %s %s\n",
			cliui.PreviewStyle.Render(utils.Truncate(utils.OneLine(t.Prompt), 60)),
			cliui.DimStyle.Render("("+detail+")"),
		)
	}
	fmt.Fprintln(out)
}

// turnErr lets cliui.Mark render a failed turn.
func turnErr(t *transcript.Turn) error {
	if t.Failed() {
		return errors.New(t.Error)
	}
	return nil
}
