package devserver

import (
	"context"
	"fmt"
	"strings"
)

// PromptKind tells a Responder which endpoint a prompt came from.
type PromptKind string

const (
	PromptChat     PromptKind = "chat"
	PromptCompany  PromptKind = "company"
	PromptProspect PromptKind = "prospect"
)

// Prompt is one request to the scripted agent.
type Prompt struct {
	Kind      PromptKind
	SessionID string

	// Text is the chat message or the built research prompt.
	Text string

	Company  string
	Prospect string

	// History is the session's conversation before this prompt.
	History []Message
}

// ToolCall is one scripted tool invocation.
type ToolCall struct {
	Name    string         `json:"name"`
	Input   map[string]any `json:"input"`
	Success bool           `json:"-"`
}

// Reply is the scripted outcome of a prompt.
type Reply struct {
	Tools []ToolCall
	Text  string
}

// Responder produces the reply to a prompt. An error is reported to the
// client as a 500 before any event is streamed.
type Responder interface {
	Respond(ctx context.Context, p Prompt) (Reply, error)
}

// ResponderFunc adapts a function to a Responder.
type ResponderFunc func(ctx context.Context, p Prompt) (Reply, error)

func (f ResponderFunc) Respond(ctx context.Context, p Prompt) (Reply, error) {
	return f(ctx, p)
}

// ScriptedResponder answers every prompt with canned, deterministic replies
// shaped like the real agent's.
type ScriptedResponder struct{}

func (ScriptedResponder) Respond(_ context.Context, p Prompt) (Reply, error) {
	switch p.Kind {
	case PromptCompany:
		return Reply{
			Tools: []ToolCall{
				{Name: "web_search", Input: map[string]any{"query": p.Company + " company overview"}, Success: true},
				{Name: "web_search", Input: map[string]any{"query": p.Company + " recent news"}, Success: true},
			},
			Text: companyReport(p.Company),
		}, nil

	case PromptProspect:
		query := p.Prospect
		if p.Company != "" {
			query += " " + p.Company
		}
		return Reply{
			Tools: []ToolCall{
				{Name: "web_search", Input: map[string]any{"query": query}, Success: true},
			},
			Text: prospectProfile(p.Prospect, p.Company),
		}, nil

	default:
		return chatReply(p), nil
	}
}

func chatReply(p Prompt) Reply {
	msg := strings.TrimSpace(p.Text)
	lower := strings.ToLower(msg)

	var tools []ToolCall
	switch {
	case strings.Contains(lower, "email"):
		tools = append(tools, ToolCall{Name: "send_email", Input: map[string]any{"draft": true}, Success: true})
	case strings.Contains(lower, "research"), strings.Contains(lower, "find"):
		tools = append(tools, ToolCall{Name: "web_search", Input: map[string]any{"query": msg}, Success: true})
	}

	turns := len(p.History)/2 + 1
	text := fmt.Sprintf("**Turn %d.** You asked:\n\n> %s\n\nThis is a scripted reply from the development server.", turns, msg)
	if len(tools) > 0 {
		text += fmt.Sprintf(" It used the `%s` tool.", tools[0].Name)
	}

	return Reply{Tools: tools, Text: text}
}

func companyReport(company string) string {
	return fmt.Sprintf(`# %[1]s

## Company overview
%[1]s is a scripted company profile.

## Recent news and developments
No news: the development server does not search the web.

## Key products or services
- Flagship product
- Professional services

## Technology stack
Not detectable.

## Key decision makers
- CEO
- VP of Sales

## Funding
Not disclosed.`, company)
}

func prospectProfile(prospect, company string) string {
	role := "Unknown role"
	if company != "" {
		role = "Works at " + company
	}

	return fmt.Sprintf(`# %s

## Current role
%s.

## Background
Scripted profile from the development server.

## Outreach angle
Reference their recent public activity.`, prospect, role)
}
