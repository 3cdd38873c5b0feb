package recorder

import (
	"time"

	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/transcript"
)

// ChatTurn builds the transcript of a finished chat turn. The reply is the
// assistant message the turn committed, if any.
func ChatTurn(sessionID, message string, s conversation.ChatState, started time.Time) *transcript.Turn {
	turn := transcript.NewTurn(sessionID, transcript.KindChat, message)
	turn.CreatedAt = started.UTC()
	turn.Duration = time.Since(started)
	turn.Tools = s.Tools
	turn.Error = s.Err

	if n := len(s.Messages); n > 0 && s.Messages[n-1].Role == conversation.RoleAssistant {
		turn.Reply = s.Messages[n-1].Content
	}

	return turn
}

// ResearchTurn builds the transcript of a finished research run. prompt
// names the subject, e.g. the company.
func ResearchTurn(sessionID string, kind transcript.Kind, prompt string, s conversation.ResearchState, started time.Time) *transcript.Turn {
	turn := transcript.NewTurn(sessionID, kind, prompt)
	turn.CreatedAt = started.UTC()
	turn.Duration = time.Since(started)
	turn.Tools = s.Tools
	turn.Reply = s.Result
	turn.Error = s.Err
	return turn
}
