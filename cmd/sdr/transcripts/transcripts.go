// Package transcriptscmder provides the transcripts command for browsing
// the recorded chat turns and research runs.
package transcriptscmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/transcript/provider"
)

const transcriptsLongDesc string = `Browse recorded turns.

Every finished chat turn and research run is recorded in the transcript
store configured under transcript.* (SQLite in the .sdr/ directory by
default, or Postgres).

Use subcommands to list, show, or prune recorded turns:
  sdr transcripts list                 List recent turns
  sdr transcripts show <id>            Show one turn in full
  sdr transcripts prune --session ID   Delete every turn of a session

Examples:
  sdr transcripts list --session acme-outreach --limit 5
  sdr transcripts show 6f1c9a2e-8c0b-4a55-9f55-0d3f0c1b2a77
  sdr transcripts list --sqlite ./transcripts.db`

const transcriptsShortDesc string = "Browse recorded turns"

var storeFlags = []string{
	config.FlagTranscriptProvider,
	config.FlagSQLite,
	config.FlagPostgres,
}

func NewTranscriptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transcripts",
		Aliases: []string{"tx"},
		Short:   transcriptsShortDesc,
		Long:    transcriptsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newPruneCmd())

	return cmd
}

// storeFlagValues holds the store selection flags every subcommand carries.
type storeFlagValues struct {
	provider    string
	sqlitePath  string
	postgresDSN string
}

func addStoreFlags(cmd *cobra.Command, f *storeFlagValues) {
	config.AddStringFlag(cmd, config.Flags, config.FlagTranscriptProvider, &f.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &f.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &f.postgresDSN)
}

// openStore opens the configured transcript store for cmd.
func openStore(ctx context.Context, cmd *cobra.Command) (transcript.Driver, error) {
	v, err := cmdutil.Viper(cmd, storeFlags...)
	if err != nil {
		return nil, err
	}

	driver, err := cmdutil.OpenTranscripts(ctx, v, cmdutil.ConfigDir(cmd))
	if errors.Is(err, provider.ErrDisabled) {
		return nil, errors.New("transcript recording is disabled (transcript.provider = none)")
	}
	if err != nil {
		return nil, fmt.Errorf("opening transcript store: %w", err)
	}

	return driver, nil
}
