package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestExtractKind(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid history URI",
			uri:      "ragdesk://video/history",
			expected: "video",
		},
		{
			name:     "invalid prefix",
			uri:      "file://video/history",
			expected: "",
		},
		{
			name:     "missing history suffix",
			uri:      "ragdesk://video",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractKind(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns turns as JSON", func(t *testing.T) {
		server, ws := newTestServer(t)
		ws.processors[domain.SourceVideo].history = []domain.ConversationTurn{
			{Role: domain.RoleUser, Content: "Who speaks?"},
			{Role: domain.RoleAssistant, Content: "The host."},
		}

		result, err := server.handleHistoryResource(ctx, readRequest("ragdesk://video/history"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var turns []map[string]string
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &turns))
		require.Len(t, turns, 2)
		assert.Equal(t, "user", turns[0]["role"])
		assert.Equal(t, "The host.", turns[1]["content"])
	})

	t.Run("empty history is an empty list", func(t *testing.T) {
		server, _ := newTestServer(t)

		result, err := server.handleHistoryResource(ctx, readRequest("ragdesk://document/history"))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", result.Contents[0].Text)
	})

	t.Run("unknown kind is not found", func(t *testing.T) {
		server, _ := newTestServer(t)

		_, err := server.handleHistoryResource(ctx, readRequest("ragdesk://podcast/history"))
		assert.Error(t, err)
	})
}

func TestServer_handleKindsResource(t *testing.T) {
	server, ws := newTestServer(t)
	ws.processors[domain.SourceWebsite].ready = true

	result, err := server.handleKindsResource(context.Background(), readRequest("ragdesk://kinds"))
	require.NoError(t, err)

	var kinds []struct {
		Kind  string `json:"kind"`
		Ready bool   `json:"ready"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &kinds))
	require.Len(t, kinds, 3)
	assert.Equal(t, "video", kinds[0].Kind)
	assert.False(t, kinds[0].Ready)
	assert.Equal(t, "website", kinds[1].Kind)
	assert.True(t, kinds[1].Ready)
}
