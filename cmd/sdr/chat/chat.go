// Package chatcmder provides the chat command, an interactive REPL against
// the SDR server's streaming chat endpoint.
package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/cliui"
	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/dotdir"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/sse"
	"github.com/papercomputeco/sdr/pkg/utils"
)

const chatLongDesc string = `Start an interactive chat session with the SDR agent.

Each message is streamed from the server. While a reply streams, the
current activity is shown next to a spinner (thinking, or the tool the agent
is using), and the finished reply is rendered as markdown. Press Ctrl+C to
cancel a reply in flight.

The session is saved in the .sdr/ directory and resumed by the next
"sdr chat". Pass --session to talk to a specific server session.

Commands inside the REPL:
  /clear     Clear the conversation on the server and locally
  /history   Show the server-side history of the session
  /session   Show the session ID
  /help      Show this list
  /exit      Leave the REPL (Ctrl+D also works)

Examples:
  sdr chat
  sdr chat --session acme-outreach
  sdr chat --base-url http://localhost:5001/api`

const chatShortDesc string = "Interactive chat with the SDR agent"

const replHelp string = `/clear     Clear the conversation on the server and locally
/history   Show the server-side history of the session
/session   Show the session ID
/exit      Leave the REPL`

type chatCommander struct {
	baseURL       string
	sessionID     string
	timeout       string
	recorderFlags config.RecorderFlagValues

	configDir string
	out       io.Writer
	logger    *slog.Logger
	viper     *viper.Viper
	client    *client.Client
	recorder  *recorder.Pool
	dotdir    *dotdir.Manager

	session *dotdir.SessionState
	state   conversation.ChatState
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSession, &cmder.sessionID)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddRecorderFlags(cmd, config.Flags, &cmder.recorderFlags)

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	c.logger = cmdutil.Logger(cmd)
	c.configDir = cmdutil.ConfigDir(cmd)
	c.out = cmd.OutOrStdout()
	c.dotdir = dotdir.NewManager()

	flags := append([]string{config.FlagBaseURL, config.FlagSession, config.FlagTimeout}, config.RecorderFlags...)
	v, err := cmdutil.Viper(cmd, flags...)
	if err != nil {
		return err
	}
	c.viper = v

	c.client, err = cmdutil.NewClient(v, c.logger)
	if err != nil {
		return err
	}

	c.recorder, err = cmdutil.NewRecorder(cmd.Context(), v, c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.recorder.Close(); err != nil {
			c.logger.Warn("closing recorder", "error", err)
		}
	}()

	if err := c.resume(v.GetString("client.session_id")); err != nil {
		return err
	}

	historyFile, err := c.dotdir.HistoryFile(c.configDir)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cliui.PromptStyle.Render("you> "),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          c.out,
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	c.printWelcome()
	return c.loop(cmd.Context(), rl)
}

// resume loads the saved session, or starts a new one. A pinned session ID
// that differs from the saved one starts that session with no local
// messages.
func (c *chatCommander) resume(pinned string) error {
	saved, err := c.dotdir.LoadSession(c.configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	switch {
	case pinned != "" && (saved == nil || saved.SessionID != pinned):
		c.session = &dotdir.SessionState{SessionID: pinned, StartedAt: time.Now().UTC()}
	case saved != nil:
		c.session = saved
	default:
		c.session = &dotdir.SessionState{SessionID: uuid.NewString(), StartedAt: time.Now().UTC()}
	}

	c.state = conversation.ChatState{}
	for _, m := range c.session.Messages {
		c.state.Messages = append(c.state.Messages, conversation.Message{
			Role:    conversation.Role(m.Role),
			Content: m.Content,
		})
	}

	return c.saveSession()
}

func (c *chatCommander) saveSession() error {
	c.session.Messages = make([]dotdir.SessionMessage, 0, len(c.state.Messages))
	for _, m := range c.state.Messages {
		c.session.Messages = append(c.session.Messages, dotdir.SessionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	if err := c.dotdir.SaveSession(c.session, c.configDir); err != nil {
		return fmt.Errorf("saving session state: %w", err)
	}
	return nil
}

func (c *chatCommander) printWelcome() {
	fmt.Fprintln(c.out)
	if n := len(c.state.Messages); n > 0 {
		fmt.Fprintf(c.out, "  %s Resuming session %s %s\n",
			cliui.SuccessMark,
			cliui.HashStyle.Render(c.session.SessionID),
			cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", n)),
		)
	} else {
		fmt.Fprintf(c.out, "  %s New session %s\n",
			cliui.DimStyle.Render("●"),
			cliui.HashStyle.Render(c.session.SessionID),
		)
	}

	fmt.Fprintf(c.out, "  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.NameStyle.Render(c.client.BaseURL()),
	)
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /help for commands, /exit or Ctrl+D to quit."))
}

func (c *chatCommander) loop(ctx context.Context, rl *readline.Instance) error {
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			exit, err := c.handleCommand(ctx, input)
			if err != nil {
				fmt.Fprintf(c.out, "  %s %v\n\n", cliui.FailMark, err)
			}
			if exit {
				return nil
			}
			continue
		}

		turnCtx, stop := cmdutil.Interruptible(ctx)
		err = c.send(turnCtx, input)
		stop()
		if err != nil {
			fmt.Fprintf(c.out, "  %s %v\n\n", cliui.FailMark, err)
		}
	}
}

// handleCommand runs a REPL slash command and reports whether the REPL
// should exit.
func (c *chatCommander) handleCommand(ctx context.Context, input string) (bool, error) {
	name, _, _ := strings.Cut(input, " ")

	switch strings.ToLower(name) {
	case "/exit", "/quit":
		return true, nil

	case "/help":
		for _, line := range strings.Split(replHelp, "\n") {
			fmt.Fprintf(c.out, "  %s\n", cliui.DimStyle.Render(line))
		}
		fmt.Fprintln(c.out)
		return false, nil

	case "/session":
		fmt.Fprintf(c.out, "  %s %s\n\n", cliui.KeyStyle.Render("Session:"), cliui.HashStyle.Render(c.session.SessionID))
		return false, nil

	case "/clear":
		return false, c.clear(ctx)

	case "/history":
		return false, c.history(ctx)

	default:
		return false, fmt.Errorf("unknown command %s, try /help", name)
	}
}

func (c *chatCommander) clear(ctx context.Context) error {
	if _, err := c.client.Clear(ctx, c.session.SessionID); err != nil {
		return err
	}

	c.state = conversation.Clear(c.state)
	if err := c.saveSession(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "  %s Conversation cleared\n\n", cliui.SuccessMark)
	return nil
}

func (c *chatCommander) history(ctx context.Context) error {
	msgs, err := c.client.History(ctx, c.session.SessionID)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("No messages yet."))
		return nil
	}

	for i, msg := range msgs {
		fmt.Fprintf(c.out, "  %s %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.RoleStyle.Render("["+msg.Role+"]"),
			cliui.PreviewStyle.Render(utils.Truncate(utils.OneLine(msg.Content), 72)),
		)
	}
	fmt.Fprintln(c.out)
	return nil
}

// send streams one turn and prints its reply. A cancelled turn keeps the
// user message and drops whatever reply was in flight.
func (c *chatCommander) send(ctx context.Context, input string) error {
	turnCtx, cancel, err := cmdutil.TurnContext(ctx, c.viper)
	if err != nil {
		return err
	}
	defer cancel()

	started := time.Now()
	stream, err := c.client.Chat(turnCtx, input, c.session.SessionID)
	if err != nil {
		return err
	}

	before := len(c.state.Messages)
	c.state = conversation.Send(c.state, input)
	c.fold(stream)

	if stream.Outcome().Kind == sse.OutcomeCancelled {
		c.state = conversation.Cancel(c.state)
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Cancelled."))
		return c.saveSession()
	}

	c.recorder.Enqueue(recorder.ChatTurn(c.session.SessionID, input, c.state, started))

	if err := c.saveSession(); err != nil {
		return err
	}

	if c.state.Err != "" {
		return errors.New(c.state.Err)
	}

	if len(c.state.Tools) > 0 {
		fmt.Fprintf(c.out, "  %s %s\n",
			cliui.DimStyle.Render("tools:"),
			cliui.DimStyle.Render(strings.Join(c.state.Tools, ", ")),
		)
	}

	// the user message sits at index before, a committed reply right after it
	if len(c.state.Messages) <= before+1 {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("No reply."))
		return nil
	}

	fmt.Fprintln(c.out)
	if err := cliui.WriteMarkdown(c.out, c.state.Messages[len(c.state.Messages)-1].Content); err != nil {
		return err
	}
	fmt.Fprintln(c.out)
	return nil
}

// fold drains the stream into the chat state, behind a spinner when the
// output is a terminal.
func (c *chatCommander) fold(stream *sse.Stream) {
	if !cliui.IsTerminal(c.out) {
		c.state = conversation.FoldChat(c.state, stream, nil)
		return
	}

	_ = cliui.StepStatus(c.out, "Assistant", func(setStatus func(string)) error {
		setStatus(cmdutil.StatusLabel(c.state.Status, c.state.ToolName))
		c.state = conversation.FoldChat(c.state, stream, func(s conversation.ChatState) {
			setStatus(cmdutil.StatusLabel(s.Status, s.ToolName))
		})
		if c.state.Err != "" {
			return errors.New(c.state.Err)
		}
		return nil
	})
}
