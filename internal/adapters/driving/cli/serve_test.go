package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_AddrFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "localhost:8080", flag.DefValue)
}

func TestServeCmd_DocRootFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("doc-root")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestServeCmd_HelpListsEndpoints(t *testing.T) {
	out, err := execute(t, "", "serve", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "/api/v1/{kind}/ask")
	assert.Contains(t, out, "/healthz")
}

func TestServeCmd_WorkspaceUnavailable(t *testing.T) {
	setupTestServices(t)
	workspaceLoader = nil

	_, err := execute(t, "", "serve")

	assert.EqualError(t, err, "workspace not configured")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_WorkspaceUnavailable(t *testing.T) {
	setupTestServices(t)
	workspaceLoader = nil

	_, err := execute(t, "", "mcp", "serve")

	assert.EqualError(t, err, "workspace not configured")
}
