// Package mcp provides an MCP (Model Context Protocol) server adapter for ragdesk.
// It lets AI assistants process sources and hold conversations over them.
package mcp

import "errors"

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("mcp: workspace is required")
