// Package mcp exposes the SDR agent as MCP (Model Context Protocol) tools,
// so other agents can research companies and prospects and chat with it.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/utils"
)

type Config struct {
	// Client talks to the SDR server.
	Client *client.Client

	// Transcripts enables the list_turns tool. Optional.
	Transcripts transcript.Driver

	// Recorder records every tool-initiated turn. Optional.
	Recorder *recorder.Pool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the research and chat tools.
func NewServer(c Config) (*Server, error) {
	if c.Client == nil {
		return nil, errors.New("client is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sdr",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        researchCompanyToolName,
		Description: researchCompanyDescription,
	}, s.handleResearchCompany)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        researchProspectToolName,
		Description: researchProspectDescription,
	}, s.handleResearchProspect)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        chatToolName,
		Description: chatDescription,
	}, s.handleChat)

	if c.Transcripts != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        listTurnsToolName,
			Description: listTurnsDescription,
		}, s.handleListTurns)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) record(turn *transcript.Turn) {
	if s.config.Recorder != nil {
		s.config.Recorder.Enqueue(turn)
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
