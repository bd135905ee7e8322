package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	assert.NoError(t, (&Ports{Workspace: newMockWorkspace()}).Validate())
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingWorkspace)

	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingWorkspace)
}
