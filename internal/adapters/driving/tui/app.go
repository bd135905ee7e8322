package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/tabs"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	// tabs selects the active source kind.
	tabs *tabs.Tabs

	// views holds one chat view per source kind. Each keeps its own
	// source and conversation.
	views map[domain.SourceKind]*chat.View

	statusbar *status.Bar

	width  int
	height int

	// ready indicates the first window size has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	kinds := make([]domain.SourceKind, 0, len(ports.Workspace.Kinds()))
	views := make(map[domain.SourceKind]*chat.View)
	for _, kind := range ports.Workspace.Kinds() {
		processor, err := ports.Workspace.Get(kind)
		if err != nil {
			return nil, fmt.Errorf("creating app: %w", err)
		}
		kinds = append(kinds, kind)
		views[kind] = chat.NewView(s, km, processor)
	}
	if len(kinds) == 0 {
		return nil, ErrNoSourceKinds
	}

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		tabs:      tabs.New(s, kinds),
		views:     views,
		statusbar: status.NewBar(s, km),
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	for _, v := range a.views {
		v.WithContext(ctx)
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("ragdesk"),
		a.active().Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.NextKind):
			a.tabs.Next()
			a.syncStatus()
			return a, nil
		case keymap.Matches(k, a.keymap.PrevKind):
			a.tabs.Prev()
			a.syncStatus()
			return a, nil
		}
		cmd = a.updateView(a.tabs.Selected(), msg)

	case messages.KindChanged:
		a.tabs.Select(msg.Kind)

	case messages.SourceProcessed:
		cmd = a.updateView(msg.Kind, msg)
		a.tabs.SetReady(msg.Kind, a.views[msg.Kind] != nil && a.views[msg.Kind].Mode() == messages.ModeChat)

	case messages.AnswerReceived:
		cmd = a.updateView(msg.Kind, msg)

	case messages.ConversationReset:
		cmd = a.updateView(msg.Kind, msg)

	default:
		// Spinner ticks carry their own ID, so every view can see them.
		cmds := make([]tea.Cmd, 0, len(a.views))
		for kind := range a.views {
			cmds = append(cmds, a.updateView(kind, msg))
		}
		cmd = tea.Batch(cmds...)
	}

	a.syncStatus()
	return a, cmd
}

func (a *App) updateView(kind domain.SourceKind, msg tea.Msg) tea.Cmd {
	v, ok := a.views[kind]
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	a.views[kind], cmd = v.Update(msg)
	return cmd
}

func (a *App) active() *chat.View {
	return a.views[a.tabs.Selected()]
}

// syncStatus mirrors the active view into the status bar.
func (a *App) syncStatus() {
	v := a.active()
	a.statusbar.Clear()
	a.statusbar.SetMode(v.Mode())
	a.statusbar.SetTurns(v.Turns())

	switch {
	case v.Busy() && v.Mode() == messages.ModeSource:
		a.statusbar.SetState(status.StateProcessing)
	case v.Busy():
		a.statusbar.SetState(status.StateThinking)
	case v.Err() != nil:
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(v.Err().Error())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("ragdesk"))
	b.WriteString("  ")
	b.WriteString(a.tabs.View())
	b.WriteString("\n\n")
	b.WriteString(a.active().View())
	b.WriteString("\n")
	b.WriteString(a.statusbar.View())
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ActiveKind returns the selected source kind.
func (a *App) ActiveKind() domain.SourceKind {
	return a.tabs.Selected()
}

// ActiveView returns the view for the selected source kind.
func (a *App) ActiveView() *chat.View {
	return a.active()
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions for all views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusbar.SetWidth(width)

	// Header, blank line and status bar.
	viewHeight := height - 3
	for _, v := range a.views {
		v.SetDimensions(width, viewHeight)
	}
}
