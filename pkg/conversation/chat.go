package conversation

import (
	"github.com/papercomputeco/sdr/pkg/sse"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one committed chat message.
type Message struct {
	Role    Role
	Content string
}

// ChatState is the state of a chat conversation.
type ChatState struct {
	Messages []Message
	Loading  bool
	Status   Status

	// ToolName is the tool most recently announced by the server.
	ToolName string

	// Tools lists every tool call started during the current turn, in order.
	Tools []string

	// Current is the assistant text of the turn in flight. Later text
	// replaces earlier text.
	Current string

	Err string
}

// Send starts a turn for a user message.
func Send(s ChatState, message string) ChatState {
	s.Messages = appendMessage(s.Messages, Message{Role: RoleUser, Content: message})
	s.Loading = true
	s.Status = StatusThinking
	s.ToolName = ""
	s.Tools = nil
	s.Current = ""
	s.Err = ""
	return s
}

// Reduce folds one frame into the state. A complete status commits Current
// as exactly one assistant message.
func Reduce(s ChatState, f sse.Frame) ChatState {
	t, p := classify(f)
	switch t {
	case toThinking:
		s.Status = StatusThinking
	case toTool:
		s.Status = StatusTool
		s.ToolName = p.Name
		if p.announcesTool() {
			s.Tools = append(s.Tools[:len(s.Tools):len(s.Tools)], p.Name)
		}
	case toText:
		s.Current = p.Text
	case toComplete:
		s.Messages = appendMessage(s.Messages, Message{Role: RoleAssistant, Content: s.Current})
		s.Loading = false
		s.Status = StatusIdle
		s.ToolName = ""
	}
	return s
}

// Finish applies the terminal outcome of the turn's stream.
func Finish(s ChatState, o sse.Outcome) ChatState {
	switch o.Kind {
	case sse.OutcomeError:
		s.Err = o.Message
		s.Loading = false
		s.Status = StatusIdle
	case sse.OutcomeDone, sse.OutcomeCancelled:
		s.Loading = false
		s.Status = StatusIdle
	}
	return s
}

// Cancel ends the turn in flight at the user's request. Committed messages
// are kept; an uncommitted reply is dropped.
func Cancel(s ChatState) ChatState {
	s.Loading = false
	s.Status = StatusIdle
	return s
}

// Clear empties the conversation.
func Clear(s ChatState) ChatState {
	s.Messages = nil
	s.Err = ""
	return s
}

// LastAssistant returns the most recent assistant message, if any.
func (s ChatState) LastAssistant() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// appendMessage never writes into a backing array shared with an earlier state.
func appendMessage(msgs []Message, m Message) []Message {
	out := make([]Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, m)
}
