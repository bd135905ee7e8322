package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

func TestNewPromptInput(t *testing.T) {
	in := NewPromptInput(styles.DefaultStyles(), "URL:", "https://...")

	require.NotNil(t, in)
	assert.Equal(t, "", in.Value())
	assert.Equal(t, "URL:", in.Label())
	assert.True(t, in.Focused())
}

func TestNewPromptInput_NilStyles(t *testing.T) {
	in := NewPromptInput(nil, "Ask:", "")

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
}

func TestPromptInput_Init(t *testing.T) {
	assert.NotNil(t, NewPromptInput(nil, "Ask:", "").Init())
}

func TestPromptInput_Typing(t *testing.T) {
	in := NewPromptInput(nil, "Ask:", "")

	updated, _ := in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})

	assert.Same(t, in, updated)
	assert.Equal(t, "hi", in.Value())
}

func TestPromptInput_BlurredIgnoresTyping(t *testing.T) {
	in := NewPromptInput(nil, "Ask:", "")
	in.Blur()

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.False(t, in.Focused())
	assert.Empty(t, in.Value())
}

func TestPromptInput_View(t *testing.T) {
	in := NewPromptInput(nil, "Document path:", "")

	assert.Contains(t, in.View(), "Document path:")
}

func TestPromptInput_SetValueAndReset(t *testing.T) {
	in := NewPromptInput(nil, "Ask:", "")

	in.SetValue("hello")
	assert.Equal(t, "hello", in.Value())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestPromptInput_SetWidth(t *testing.T) {
	in := NewPromptInput(nil, "Ask:", "")

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 90, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}
