package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil workspace returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingWorkspace)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Workspace: newMockWorkspace(),
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil workspace returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingWorkspace)
	})

	t.Run("workspace is valid", func(t *testing.T) {
		ports := &Ports{Workspace: newMockWorkspace()}
		assert.NoError(t, ports.Validate())
	})
}
