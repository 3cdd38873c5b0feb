package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/sse"
)

// defaultChatSession keeps MCP conversations apart from the terminal's.
const defaultChatSession = "mcp"

var (
	chatToolName    = "chat"
	chatDescription = "Send a message to the SDR assistant and return its reply. Turns with the same session_id share one conversation on the server."
)

// ChatInput represents the input arguments for the chat tool.
type ChatInput struct {
	Message   string `json:"message" jsonschema:"the message to send to the assistant"`
	SessionID string `json:"session_id,omitempty" jsonschema:"the conversation to continue, defaults to mcp"`
}

// ChatOutput represents the structured output of a chat turn.
type ChatOutput struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Tools     []string `json:"tools,omitempty"`
}

func (s *Server) handleChat(ctx context.Context, _ *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = defaultChatSession
	}

	started := time.Now()

	stream, err := s.config.Client.Chat(ctx, input.Message, sessionID)
	if errors.Is(err, client.ErrEmptyMessage) {
		return errorResult("message is required"), ChatOutput{}, nil
	}
	if err != nil {
		return errorResult("Chat failed: " + err.Error()), ChatOutput{}, nil
	}

	state := conversation.FoldChat(conversation.Send(conversation.ChatState{}, input.Message), stream, nil)
	if stream.Outcome().Kind == sse.OutcomeCancelled {
		return errorResult("Chat cancelled"), ChatOutput{}, nil
	}
	s.record(recorder.ChatTurn(sessionID, input.Message, state, started))

	if state.Err != "" {
		return errorResult("Chat failed: " + state.Err), ChatOutput{}, nil
	}

	reply, ok := state.LastAssistant()
	if !ok {
		return errorResult("Chat failed: the server ended the turn without a reply"), ChatOutput{}, nil
	}

	output := ChatOutput{
		SessionID: sessionID,
		Reply:     reply.Content,
		Tools:     state.Tools,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: reply.Content},
		},
	}, output, nil
}
