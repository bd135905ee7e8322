package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_String(t *testing.T) {
	assert.Equal(t, "source", ModeSource.String())
	assert.Equal(t, "chat", ModeChat.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
