package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/sdr/pkg/transcript"
)

const defaultListLimit = 20

var (
	listTurnsToolName    = "list_turns"
	listTurnsDescription = "List recorded SDR turns, newest first. Each turn has the prompt, the assistant's reply and the tools it used. Filter by session_id to follow one conversation."
)

// ListTurnsInput represents the input arguments for the list_turns tool.
type ListTurnsInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"only list turns of this session"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of turns to return, defaults to 20"`
}

// ListTurnsOutput represents the structured output of list_turns.
type ListTurnsOutput struct {
	Turns []TurnResult `json:"turns,omitempty"`
}

// TurnResult is one recorded turn as returned to MCP clients.
type TurnResult struct {
	ID         string   `json:"id"`
	SessionID  string   `json:"session_id"`
	Kind       string   `json:"kind"`
	Prompt     string   `json:"prompt"`
	Reply      string   `json:"reply"`
	Tools      []string `json:"tools,omitempty"`
	Error      string   `json:"error,omitempty"`
	CreatedAt  string   `json:"created_at"`
	DurationMs int64    `json:"duration_ms"`
}

func (s *Server) handleListTurns(ctx context.Context, _ *mcp.CallToolRequest, input ListTurnsInput) (*mcp.CallToolResult, ListTurnsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	turns, err := s.config.Transcripts.List(ctx, transcript.ListOptions{
		SessionID: input.SessionID,
		Limit:     limit,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Listing turns failed: %v", err)), ListTurnsOutput{}, nil
	}

	output := ListTurnsOutput{Turns: make([]TurnResult, 0, len(turns))}
	for _, t := range turns {
		output.Turns = append(output.Turns, buildTurnResult(t))
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), ListTurnsOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func buildTurnResult(t *transcript.Turn) TurnResult {
	return TurnResult{
		ID:         t.ID.String(),
		SessionID:  t.SessionID,
		Kind:       string(t.Kind),
		Prompt:     t.Prompt,
		Reply:      t.Reply,
		Tools:      t.Tools,
		Error:      t.Error,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
		DurationMs: t.Duration.Milliseconds(),
	}
}
