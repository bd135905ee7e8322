package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// ProcessSourceInput is the input schema for the process_source tool.
type ProcessSourceInput struct {
	Kind string `json:"kind" jsonschema:"source kind: video, website or document"`
	Ref  string `json:"ref" jsonschema:"YouTube URL, website URL or local document path"`
}

// ProcessSourceOutput is the output schema for the process_source tool.
type ProcessSourceOutput struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	Summary   string `json:"summary,omitempty"`
	Chunks    int    `json:"chunks"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Kind     string `json:"kind" jsonschema:"source kind whose conversation to continue"`
	Question string `json:"question" jsonschema:"the question to answer from the processed source"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
	Ready  bool   `json:"ready"`
}

// ResetInput is the input schema for the reset_conversation tool.
type ResetInput struct {
	Kind string `json:"kind" jsonschema:"source kind whose conversation history to clear"`
}

// ResetOutput is the output schema for the reset_conversation tool.
type ResetOutput struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_source",
		Description: "Extract the text of a video, website or document, index it and summarise it",
	}, s.handleProcessSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the most recently processed source of a kind",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset_conversation",
		Description: "Clear the conversation history of a kind, keeping its processed source",
	}, s.handleReset)
}

// processor resolves the processor for a kind name.
func (s *Server) processor(kind string) (driving.SourceProcessor, error) {
	k, err := domain.ParseSourceKind(kind)
	if err != nil {
		return nil, err
	}
	return s.ports.Workspace.Get(k)
}

// handleProcessSource handles the process_source tool invocation.
// Processing failures are reported in the output, not as tool errors.
func (s *Server) handleProcessSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessSourceInput,
) (*mcp.CallToolResult, ProcessSourceOutput, error) {
	p, err := s.processor(input.Kind)
	if err != nil {
		return nil, ProcessSourceOutput{}, err
	}

	result := p.Process(ctx, input.Ref)
	return nil, ProcessSourceOutput{
		OK:        result.OK(),
		Message:   result.Message(),
		Summary:   result.Summary,
		Chunks:    result.Chunks,
		ErrorKind: string(result.ErrorKind()),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	p, err := s.processor(input.Kind)
	if err != nil {
		return nil, AskOutput{}, err
	}

	// Ask always returns displayable text, including on failure.
	answer, _ := p.Ask(ctx, input.Question) //nolint:errcheck // answer carries the error text
	return nil, AskOutput{Answer: answer, Ready: p.Ready()}, nil
}

// handleReset handles the reset_conversation tool invocation.
func (s *Server) handleReset(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResetInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	p, err := s.processor(input.Kind)
	if err != nil {
		return nil, ResetOutput{}, err
	}

	status := p.Reset()
	return nil, ResetOutput{Cleared: status.Cleared(), Message: status.Message()}, nil
}
