package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Workspace: newMockWorkspace()})
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Workspace: newMockWorkspace()})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceVideo, app.ActiveKind())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingWorkspace)
	assert.Nil(t, app)
}

func TestNewApp_NoKinds(t *testing.T) {
	_, err := NewApp(&Ports{Workspace: &mockWorkspace{}})

	assert.ErrorIs(t, err, ErrNoSourceKinds)
}

func TestNewApp_ProcessorError(t *testing.T) {
	ws := newMockWorkspace()
	ws.getErr = domain.ErrUnsupportedType

	_, err := NewApp(&Ports{Workspace: ws})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestApp_WithContext(t *testing.T) {
	type ctxKey struct{}
	app := newTestApp(t)
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	assert.NotNil(t, newTestApp(t).Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Workspace: newMockWorkspace()})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	view := app.View()
	assert.Contains(t, view, "ragdesk")
	assert.Contains(t, view, "YouTube URL:")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(key(tea.KeyCtrlC))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SwitchKinds(t *testing.T) {
	app := newTestApp(t)

	app.Update(key(tea.KeyTab))
	assert.Equal(t, domain.SourceWebsite, app.ActiveKind())
	assert.Contains(t, app.View(), "Website URL:")

	app.Update(key(tea.KeyShiftTab))
	app.Update(key(tea.KeyShiftTab))
	assert.Equal(t, domain.SourceDocument, app.ActiveKind())

	app.Update(messages.KindChanged{Kind: domain.SourceVideo})
	assert.Equal(t, domain.SourceVideo, app.ActiveKind())
}

func TestApp_TypingGoesToActiveView(t *testing.T) {
	app := newTestApp(t)
	app.Update(key(tea.KeyTab))

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("https://acme.test")})
	_, cmd := app.Update(key(tea.KeyEnter))

	require.NotNil(t, cmd)
	assert.True(t, app.ActiveView().Busy())
	assert.Contains(t, app.View(), "Processing...")
}

func TestApp_RoutesResultsByKind(t *testing.T) {
	app := newTestApp(t)

	// The document finishes while the video tab is active.
	app.Update(messages.SourceProcessed{
		Kind:   domain.SourceDocument,
		Result: domain.Succeeded(domain.SourceDocument, "notes.md", "text", "Notes summary.", 1),
	})

	assert.Equal(t, messages.ModeSource, app.ActiveView().Mode())
	assert.Contains(t, app.tabs.View(), "Document ●")

	app.Update(messages.KindChanged{Kind: domain.SourceDocument})
	assert.Equal(t, messages.ModeChat, app.ActiveView().Mode())
	assert.Equal(t, "Notes summary.", app.ActiveView().Summary())

	app.Update(messages.AnswerReceived{Kind: domain.SourceDocument, Question: "Q", Answer: "A"})
	assert.Equal(t, 1, app.ActiveView().Turns())
}

func TestApp_StatusShowsErrors(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.SourceProcessed{
		Kind:   domain.SourceVideo,
		Result: domain.Failed(domain.SourceVideo, "x", errors.New("yt-dlp not found")),
	})

	assert.Contains(t, app.View(), "Error: yt-dlp not found")
	assert.NotContains(t, app.tabs.View(), "Video ●")
}

func TestApp_UnknownMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(struct{}{})

	assert.Nil(t, cmd)
}
