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
	"github.com/papercomputeco/sdr/pkg/transcript"
)

var (
	researchCompanyToolName    = "research_company"
	researchCompanyDescription = "Research a company for sales outreach. Returns a markdown report covering the company overview, recent news, products, technology stack, key decision makers and funding."

	researchProspectToolName    = "research_prospect"
	researchProspectDescription = "Research a person for sales outreach. Returns a markdown profile covering their role, background, education, public activity and interests. Pass the company they work at for better results."
)

// ResearchCompanyInput represents the input arguments for the research_company tool.
type ResearchCompanyInput struct {
	Company string `json:"company" jsonschema:"the name of the company to research"`
}

// ResearchProspectInput represents the input arguments for the research_prospect tool.
type ResearchProspectInput struct {
	Prospect string `json:"prospect" jsonschema:"the full name of the person to research"`
	Company  string `json:"company,omitempty" jsonschema:"the company the person works at"`
}

// ResearchOutput represents the structured output of a research run.
type ResearchOutput struct {
	Report string   `json:"report"`
	Tools  []string `json:"tools,omitempty"`
}

func (s *Server) handleResearchCompany(ctx context.Context, _ *mcp.CallToolRequest, input ResearchCompanyInput) (*mcp.CallToolResult, ResearchOutput, error) {
	return s.research(ctx, client.ResearchCompany, client.ResearchParams{Company: input.Company}, transcript.KindCompany, input.Company)
}

func (s *Server) handleResearchProspect(ctx context.Context, _ *mcp.CallToolRequest, input ResearchProspectInput) (*mcp.CallToolResult, ResearchOutput, error) {
	return s.research(ctx, client.ResearchProspect, client.ResearchParams{
		Prospect: input.Prospect,
		Company:  input.Company,
	}, transcript.KindProspect, input.Prospect)
}

func (s *Server) research(ctx context.Context, kind client.ResearchKind, params client.ResearchParams, turnKind transcript.Kind, subject string) (*mcp.CallToolResult, ResearchOutput, error) {
	started := time.Now()

	stream, err := s.config.Client.Research(ctx, kind, params, "")
	switch {
	case errors.Is(err, client.ErrEmptyCompany):
		return errorResult("company is required"), ResearchOutput{}, nil
	case errors.Is(err, client.ErrEmptyProspect):
		return errorResult("prospect is required"), ResearchOutput{}, nil
	case err != nil:
		return errorResult("Research failed: " + err.Error()), ResearchOutput{}, nil
	}

	s.config.Logger.Debug("mcp research started", "kind", kind, "subject", subject)

	state := conversation.FoldResearch(conversation.StartResearch(conversation.ResearchState{}), stream, nil)
	if stream.Outcome().Kind == sse.OutcomeCancelled {
		return errorResult("Research cancelled"), ResearchOutput{}, nil
	}
	s.record(recorder.ResearchTurn(client.DefaultResearchSession, turnKind, subject, state, started))

	if state.Err != "" {
		return errorResult("Research failed: " + state.Err), ResearchOutput{}, nil
	}

	output := ResearchOutput{Report: state.Result, Tools: state.Tools}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: state.Result},
		},
	}, output, nil
}
