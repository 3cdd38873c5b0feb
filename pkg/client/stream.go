package client

import (
	"context"
	"strings"

	"github.com/papercomputeco/sdr/pkg/sse"
)

// ResearchKind selects the research endpoint.
type ResearchKind string

const (
	ResearchCompany  ResearchKind = "company"
	ResearchProspect ResearchKind = "prospect"
)

// ResearchParams are the subjects of a research run. Company is required
// for company research; prospect research requires Prospect and uses
// Company as optional context.
type ResearchParams struct {
	Company  string `json:"company,omitempty"`
	Prospect string `json:"prospect,omitempty"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type researchRequest struct {
	ResearchParams
	SessionID string `json:"session_id"`
}

// Chat sends one user message and returns the stream of the assistant's
// turn. An empty sessionID uses DefaultChatSession.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*sse.Stream, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if sessionID == "" {
		sessionID = DefaultChatSession
	}

	req, err := c.newJSONRequest(ctx, "/chat", chatRequest{
		Message:   message,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("opening chat stream",
		"session_id", sessionID,
		"message_length", len(message),
	)

	return sse.Open(ctx, c.httpClient, req, c.streamOpts...), nil
}

// Research starts a research run and returns its stream. ResearchCompany
// selects the company endpoint, any other kind the prospect endpoint.
// An empty sessionID uses DefaultResearchSession.
func (c *Client) Research(ctx context.Context, kind ResearchKind, params ResearchParams, sessionID string) (*sse.Stream, error) {
	path := "/research/prospect"
	if kind == ResearchCompany {
		if strings.TrimSpace(params.Company) == "" {
			return nil, ErrEmptyCompany
		}
		path = "/research/company"
	} else if strings.TrimSpace(params.Prospect) == "" {
		return nil, ErrEmptyProspect
	}

	if sessionID == "" {
		sessionID = DefaultResearchSession
	}

	req, err := c.newJSONRequest(ctx, path, researchRequest{
		ResearchParams: params,
		SessionID:      sessionID,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("opening research stream",
		"path", path,
		"session_id", sessionID,
		"company", params.Company,
		"prospect", params.Prospect,
	)

	return sse.Open(ctx, c.httpClient, req, c.streamOpts...), nil
}
