// Package client talks to the SDR agent server: the streaming chat and
// research endpoints plus the session housekeeping endpoints.
//
// Streaming calls return an *sse.Stream the caller drives and may cancel;
// plain calls return decoded responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/papercomputeco/sdr/pkg/logger"
	"github.com/papercomputeco/sdr/pkg/sse"
)

const (
	// DefaultBaseURL is where the SDR server listens by default.
	DefaultBaseURL = "http://localhost:5001/api"

	// DefaultChatSession is the session chat turns use when none is given.
	DefaultChatSession = "default"

	// DefaultResearchSession is the session research runs use when none is given.
	DefaultResearchSession = "research"
)

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrEmptyCompany  = errors.New("company name is required")
	ErrEmptyProspect = errors.New("prospect name is required")
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root every endpoint path is joined to.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient issues the requests. Defaults to a client without a
	// timeout, since streamed turns can run for minutes; bound them with
	// the context instead.
	HTTPClient *http.Client

	Logger *slog.Logger

	// StreamOptions are applied to every stream the client opens.
	StreamOptions []sse.Option
}

// Client is an SDR server client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	streamOpts []sse.Option
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	opts := append([]sse.Option{sse.WithLogger(log)}, cfg.StreamOptions...)

	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: httpClient,
		logger:     log,
		streamOpts: opts,
	}, nil
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// newJSONRequest builds a POST request carrying body as JSON.
func (c *Client) newJSONRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// do sends req and decodes a JSON response into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return sse.ReadStatusError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}

	return nil
}
