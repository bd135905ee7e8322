package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for ragdesk resources.
	uriScheme = "ragdesk://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing source kinds and their readiness.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "kinds",
		Name:        "kinds",
		Description: "Source kinds and whether each has a processed source",
		MIMEType:    "application/json",
	}, s.handleKindsResource)

	// Template for conversation history.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{kind}/history",
		Name:        "conversation-history",
		Description: "Conversation turns for one source kind",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleKindsResource returns every source kind with its readiness.
func (s *Server) handleKindsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type kindInfo struct {
		Kind  string `json:"kind"`
		Label string `json:"label"`
		Ready bool   `json:"ready"`
		Turns int    `json:"turns"`
	}

	kinds := s.ports.Workspace.Kinds()
	infos := make([]kindInfo, 0, len(kinds))
	for _, k := range kinds {
		p, err := s.ports.Workspace.Get(k)
		if err != nil {
			continue
		}
		infos = append(infos, kindInfo{
			Kind:  k.String(),
			Label: k.Label(),
			Ready: p.Ready(),
			Turns: len(p.History()),
		})
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling kinds: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleHistoryResource returns the conversation history of one kind.
func (s *Server) handleHistoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract kind from URI: ragdesk://{kind}/history
	kind, err := domain.ParseSourceKind(extractKind(req.Params.URI))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	p, err := s.ports.Workspace.Get(kind)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type turnInfo struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	history := p.History()
	turns := make([]turnInfo, len(history))
	for i, turn := range history {
		turns[i] = turnInfo{Role: string(turn.Role), Content: turn.Content}
	}

	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractKind extracts the kind from a URI like ragdesk://{kind}/history.
func extractKind(uri string) string {
	const suffix = "/history"

	if !strings.HasPrefix(uri, uriScheme) {
		return ""
	}

	uri = strings.TrimPrefix(uri, uriScheme)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
