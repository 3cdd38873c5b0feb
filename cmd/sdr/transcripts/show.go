package transcriptscmder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/transcript"
)

const showLongDesc string = `Show one recorded turn in full.

The turn ID may be given in full or as the short prefix printed by
"sdr transcripts list".

Examples:
  sdr transcripts show 6f1c9a2e
  sdr transcripts show 6f1c9a2e-8c0b-4a55-9f55-0d3f0c1b2a77`

const showShortDesc string = "Show a recorded turn"

func newShowCmd() *cobra.Command {
	var store storeFlagValues

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}

	addStoreFlags(cmd, &store)

	return cmd
}

func runShow(cmd *cobra.Command, ref string) error {
	driver, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer driver.Close()

	turn, err := findTurn(cmd, driver, ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Turn:    "), cliui.HashStyle.Render(turn.ID.String()))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Session: "), cliui.NameStyle.Render(turn.SessionID))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Kind:    "), cliui.RoleStyle.Render(string(turn.Kind)))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Recorded:"), cliui.DimStyle.Render(turn.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Duration:"), cliui.DimStyle.Render(cliui.FormatDuration(turn.Duration)))
	if len(turn.Tools) > 0 {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Tools:   "), cliui.ValueStyle.Render(strings.Join(turn.Tools, ", ")))
	}

	fmt.Fprintf(out, "\n  %s %s\n", cliui.RoleStyle.Render("[prompt]"), cliui.PreviewStyle.Render(turn.Prompt))

	if turn.Failed() {
		fmt.Fprintf(out, "\n  %s %s\n\n", cliui.FailMark, turn.Error)
		return nil
	}

	fmt.Fprintf(out, "\n  %s\n", cliui.RoleStyle.Render("[reply]"))
	return cliui.WriteMarkdown(out, turn.Reply)
}

// findTurn resolves a full ID directly, and a prefix by scanning the
// recorded turns.
func findTurn(cmd *cobra.Command, driver transcript.Driver, ref string) (*transcript.Turn, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return driver.Get(cmd.Context(), id)
	}

	ref = strings.ToLower(ref)
	if ref == "" {
		return nil, errors.New("turn id is required")
	}

	turns, err := driver.List(cmd.Context(), transcript.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing turns: %w", err)
	}

	var match *transcript.Turn
	for _, t := range turns {
		if !strings.HasPrefix(t.ID.String(), ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("turn id %q is ambiguous", ref)
		}
		match = t
	}

	if match == nil {
		return nil, transcript.NotFoundError{ID: ref}
	}
	return match, nil
}
