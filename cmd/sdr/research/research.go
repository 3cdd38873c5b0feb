// Package researchcmder provides the research command for one-shot company
// and prospect research.
package researchcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/sse"
	"github.com/papercomputeco/sdr/pkg/transcript"
)

const researchLongDesc string = `Research a company or a prospect.

With --company alone, the agent researches the company: overview, recent
news, products, technology, decision makers and funding. With --prospect,
the agent researches the person, using --company as optional context.

The report is rendered as markdown once the run completes. Press Ctrl+C to
cancel a run in flight.

Examples:
  sdr research --company Acme
  sdr research --prospect "Ada Lovelace" --company Acme`

const researchShortDesc string = "Research a company or prospect"

var errNoSubject = errors.New("either --company or --prospect is required")

type researchCommander struct {
	company       string
	prospect      string
	baseURL       string
	sessionID     string
	timeout       string
	recorderFlags config.RecorderFlagValues

	out      io.Writer
	logger   *slog.Logger
	viper    *viper.Viper
	client   *client.Client
	recorder *recorder.Pool
}

func NewResearchCmd() *cobra.Command {
	cmder := &researchCommander{}

	cmd := &cobra.Command{
		Use:   "research",
		Short: researchShortDesc,
		Long:  researchLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if strings.TrimSpace(cmder.company) == "" && strings.TrimSpace(cmder.prospect) == "" {
				return errNoSubject
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.company, "company", "c", "", "Company to research")
	cmd.Flags().StringVarP(&cmder.prospect, "prospect", "p", "", "Prospect to research")
	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", client.DefaultResearchSession, "Server session for the research run")
	config.AddRecorderFlags(cmd, config.Flags, &cmder.recorderFlags)

	return cmd
}

func (c *researchCommander) run(cmd *cobra.Command) error {
	c.logger = cmdutil.Logger(cmd)
	c.out = cmd.OutOrStdout()

	flags := append([]string{config.FlagBaseURL, config.FlagTimeout}, config.RecorderFlags...)
	v, err := cmdutil.Viper(cmd, flags...)
	if err != nil {
		return err
	}
	c.viper = v

	c.client, err = cmdutil.NewClient(v, c.logger)
	if err != nil {
		return err
	}

	c.recorder, err = cmdutil.NewRecorder(cmd.Context(), v, cmdutil.ConfigDir(cmd), c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.recorder.Close(); err != nil {
			c.logger.Warn("closing recorder", "error", err)
		}
	}()

	ctx, stop := cmdutil.Interruptible(cmd.Context())
	defer stop()

	return c.research(ctx)
}

// subject picks the endpoint and the transcript prompt of the run.
func (c *researchCommander) subject() (client.ResearchKind, transcript.Kind, string) {
	if strings.TrimSpace(c.prospect) == "" {
		return client.ResearchCompany, transcript.KindCompany, c.company
	}

	prompt := c.prospect
	if c.company != "" {
		prompt += " (" + c.company + ")"
	}
	return client.ResearchProspect, transcript.KindProspect, prompt
}

func (c *researchCommander) research(ctx context.Context) error {
	kind, turnKind, prompt := c.subject()

	runCtx, cancel, err := cmdutil.TurnContext(ctx, c.viper)
	if err != nil {
		return err
	}
	defer cancel()

	started := time.Now()
	stream, err := c.client.Research(runCtx, kind, client.ResearchParams{
		Company:  c.company,
		Prospect: c.prospect,
	}, c.sessionID)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	state := c.fold(stream, "Researching "+prompt)

	if stream.Outcome().Kind == sse.OutcomeCancelled {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Cancelled."))
		return nil
	}

	c.recorder.Enqueue(recorder.ResearchTurn(c.sessionID, turnKind, prompt, state, started))

	if state.Err != "" {
		return errors.New(state.Err)
	}

	if len(state.Tools) > 0 {
		fmt.Fprintf(c.out, "  %s %s\n",
			cliui.DimStyle.Render("tools:"),
			cliui.DimStyle.Render(strings.Join(state.Tools, ", ")),
		)
	}

	if state.Result == "" {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("No report."))
		return nil
	}

	fmt.Fprintln(c.out)
	return cliui.WriteMarkdown(c.out, state.Result)
}

func (c *researchCommander) fold(stream *sse.Stream, msg string) conversation.ResearchState {
	state := conversation.StartResearch(conversation.ResearchState{})

	if !cliui.IsTerminal(c.out) {
		return conversation.FoldResearch(state, stream, nil)
	}

	_ = cliui.StepStatus(c.out, msg, func(setStatus func(string)) error {
		setStatus(cmdutil.StatusLabel(state.Status, state.ToolName))
		state = conversation.FoldResearch(state, stream, func(s conversation.ResearchState) {
			setStatus(cmdutil.StatusLabel(s.Status, s.ToolName))
		})
		if state.Err != "" {
			return errors.New(state.Err)
		}
		return nil
	})

	return state
}
