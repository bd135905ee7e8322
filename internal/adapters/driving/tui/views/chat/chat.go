// Package chat provides the per-source view: a source input, the summary
// and a scrolling conversation.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// resetCommand clears the conversation when typed as a question.
const resetCommand = "/reset"

// entry is one rendered line group in the transcript.
type entry struct {
	role domain.Role
	text string
}

// View drives one SourceProcessor.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	processor driving.SourceProcessor
	ctx       context.Context

	refInput      *input.PromptInput
	questionInput *input.PromptInput
	transcript    viewport.Model
	spinner       spinner.Model

	mode    messages.Mode
	busy    bool
	source  string
	summary string
	entries []entry
	notice  string
	err     error

	width  int
	height int
}

// NewView creates a view for processor.
func NewView(s *styles.Styles, km *keymap.KeyMap, processor driving.SourceProcessor) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	kind := processor.Kind()
	question := input.NewPromptInput(s, "Ask:", "Ask a question, or /reset")
	question.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:        s,
		keymap:        km,
		processor:     processor,
		ctx:           context.Background(),
		refInput:      input.NewPromptInput(s, refLabel(kind), refPlaceholder(kind)),
		questionInput: question,
		transcript:    viewport.New(80, 10),
		spinner:       sp,
		mode:          messages.ModeSource,
	}
}

func refLabel(kind domain.SourceKind) string {
	switch kind {
	case domain.SourceVideo:
		return "YouTube URL:"
	case domain.SourceWebsite:
		return "Website URL:"
	default:
		return "Document path:"
	}
}

func refPlaceholder(kind domain.SourceKind) string {
	switch kind {
	case domain.SourceVideo:
		return "https://www.youtube.com/watch?v=..."
	case domain.SourceWebsite:
		return "https://example.com"
	default:
		return "./report.pdf"
	}
}

// WithContext sets the context passed to processing and questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Kind returns the source kind this view handles.
func (v *View) Kind() domain.SourceKind {
	return v.processor.Kind()
}

// Init implements the bubbletea component pattern.
func (v *View) Init() tea.Cmd {
	return v.refInput.Init()
}

// Update handles messages for this view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SourceProcessed:
		return v, v.handleProcessed(msg)

	case messages.AnswerReceived:
		v.busy = false
		v.entries = append(v.entries, entry{role: domain.RoleAssistant, text: msg.Answer})
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrNotProcessed) {
			v.err = msg.Err
		}
		v.refreshTranscript()
		return v, nil

	case messages.ConversationReset:
		v.busy = false
		v.notice = msg.Status.Message()
		if msg.Status.Cleared() {
			v.entries = nil
		}
		v.refreshTranscript()
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleProcessed(msg messages.SourceProcessed) tea.Cmd {
	v.busy = false
	if !msg.Result.OK() {
		v.err = msg.Result.Err
		v.notice = msg.Result.Message()
		return nil
	}

	v.err = nil
	v.notice = msg.Result.Message()
	v.source = msg.Result.Source
	v.summary = msg.Result.Summary
	v.entries = nil
	v.mode = messages.ModeChat
	v.refInput.Blur()
	v.refreshTranscript()
	return v.questionInput.Focus()
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Submit):
		if v.mode == messages.ModeSource {
			return v, v.submitSource()
		}
		return v, v.submitQuestion()

	case v.mode == messages.ModeChat && keymap.Matches(k, v.keymap.Reset):
		return v, v.startReset()

	case v.mode == messages.ModeChat && keymap.Matches(k, v.keymap.Back):
		v.mode = messages.ModeSource
		v.questionInput.Blur()
		v.notice = ""
		return v, v.refInput.Focus()

	case keymap.Matches(k, v.keymap.ScrollUp), keymap.Matches(k, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	if v.mode == messages.ModeSource {
		v.refInput, cmd = v.refInput.Update(msg)
	} else {
		v.questionInput, cmd = v.questionInput.Update(msg)
	}
	return v, cmd
}

func (v *View) submitSource() tea.Cmd {
	ref := strings.TrimSpace(v.refInput.Value())
	if ref == "" {
		return nil
	}
	v.busy = true
	v.err = nil
	v.notice = ""
	return tea.Batch(v.spinner.Tick, processCmd(v.ctx, v.processor, ref))
}

func (v *View) submitQuestion() tea.Cmd {
	question := strings.TrimSpace(v.questionInput.Value())
	if question == "" {
		return nil
	}
	v.questionInput.Reset()
	if question == resetCommand {
		return v.startReset()
	}

	v.busy = true
	v.err = nil
	v.notice = ""
	v.entries = append(v.entries, entry{role: domain.RoleUser, text: question})
	v.refreshTranscript()
	return tea.Batch(v.spinner.Tick, askCmd(v.ctx, v.processor, question))
}

func (v *View) startReset() tea.Cmd {
	v.busy = true
	return resetCmd(v.processor)
}

func processCmd(ctx context.Context, p driving.SourceProcessor, ref string) tea.Cmd {
	return func() tea.Msg {
		return messages.SourceProcessed{Kind: p.Kind(), Result: p.Process(ctx, ref)}
	}
}

func askCmd(ctx context.Context, p driving.SourceProcessor, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := p.Ask(ctx, question)
		return messages.AnswerReceived{Kind: p.Kind(), Question: question, Answer: answer, Err: err}
	}
}

func resetCmd(p driving.SourceProcessor) tea.Cmd {
	return func() tea.Msg {
		return messages.ConversationReset{Kind: p.Kind(), Status: p.Reset()}
	}
}

// refreshTranscript re-renders the conversation into the viewport.
func (v *View) refreshTranscript() {
	width := v.transcript.Width
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width - 2)

	var b strings.Builder
	if v.summary != "" {
		b.WriteString(v.styles.Subtitle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(v.styles.Summary.Render(wrap.Render(v.summary)))
		b.WriteString("\n\n")
	}
	for _, e := range v.entries {
		label := v.styles.UserLabel.Render("You")
		if e.role == domain.RoleAssistant {
			label = v.styles.AssistantLabel.Render("Assistant")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wrap.Render(e.text))
		b.WriteString("\n\n")
	}

	v.transcript.SetContent(b.String())
	v.transcript.GotoBottom()
}

// View renders the view.
func (v *View) View() string {
	var b strings.Builder

	if v.mode == messages.ModeSource {
		b.WriteString(v.styles.Muted.Render("Enter a " + v.Kind().RefName() + " to summarise and chat about."))
		b.WriteString("\n\n")
		b.WriteString(v.refInput.View())
		b.WriteString("\n")
	} else {
		b.WriteString(v.styles.Muted.Render(v.source))
		b.WriteString("\n")
		b.WriteString(v.transcript.View())
		b.WriteString("\n")
		b.WriteString(v.questionInput.View())
		b.WriteString("\n")
	}

	switch {
	case v.busy:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render(v.busyLabel()))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.notice))
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
	}
	return b.String()
}

func (v *View) busyLabel() string {
	if v.mode == messages.ModeSource {
		return "Processing " + strings.ToLower(v.Kind().Label()) + "..."
	}
	return "Thinking..."
}

// SetDimensions sets the area available to the view.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.refInput.SetWidth(width)
	v.questionInput.SetWidth(width)

	// Source line, input box (3 rows) and status line.
	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.transcript.Width = width
	v.transcript.Height = transcriptHeight
	v.refreshTranscript()
}

// Mode returns what the view is waiting for.
func (v *View) Mode() messages.Mode {
	return v.mode
}

// Busy reports whether processing or a question is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last status message.
func (v *View) Notice() string {
	return v.notice
}

// Summary returns the summary of the processed source.
func (v *View) Summary() string {
	return v.summary
}

// Transcript returns the rendered conversation.
func (v *View) Transcript() string {
	return v.transcript.View()
}

// Turns returns how many conversation entries are shown.
func (v *View) Turns() int {
	return len(v.entries)
}
