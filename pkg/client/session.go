package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ClearResponse is the server's answer to a clear request.
type ClearResponse struct {
	Status string `json:"status"`
}

// HistoryMessage is one message of a session's server-side history.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type clearRequest struct {
	SessionID string `json:"session_id"`
}

// Clear drops the server-side conversation of a session.
// An empty sessionID uses DefaultChatSession.
func (c *Client) Clear(ctx context.Context, sessionID string) (*ClearResponse, error) {
	if sessionID == "" {
		sessionID = DefaultChatSession
	}

	req, err := c.newJSONRequest(ctx, "/chat/clear", clearRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}

	resp := &ClearResponse{}
	if err := c.do(req, resp); err != nil {
		return nil, fmt.Errorf("clearing session %q: %w", sessionID, err)
	}

	return resp, nil
}

// History returns the server-side conversation of a session, oldest first.
// An empty sessionID uses DefaultChatSession.
func (c *Client) History(ctx context.Context, sessionID string) ([]HistoryMessage, error) {
	if sessionID == "" {
		sessionID = DefaultChatSession
	}

	q := url.Values{"session_id": []string{sessionID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/chat/history")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp := &historyResponse{}
	if err := c.do(req, resp); err != nil {
		return nil, fmt.Errorf("fetching history of session %q: %w", sessionID, err)
	}

	return resp.Messages, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp := &healthResponse{}
	if err := c.do(req, resp); err != nil {
		return fmt.Errorf("checking health: %w", err)
	}

	if resp.Status != "ok" {
		return errors.New("server reported status " + resp.Status)
	}

	return nil
}
