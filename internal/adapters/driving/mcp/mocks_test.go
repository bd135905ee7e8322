package mcp

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// mockProcessor is a mock implementation of driving.SourceProcessor.
type mockProcessor struct {
	kind      domain.SourceKind
	result    domain.ProcessResult
	answer    string
	askErr    error
	history   []domain.ConversationTurn
	ready     bool
	processed []string
	asked     []string
}

func (m *mockProcessor) Kind() domain.SourceKind { return m.kind }

func (m *mockProcessor) Process(_ context.Context, ref string) domain.ProcessResult {
	m.processed = append(m.processed, ref)
	if m.result.Err == nil {
		m.ready = true
	}
	return m.result
}

func (m *mockProcessor) Ask(_ context.Context, question string) (string, error) {
	m.asked = append(m.asked, question)
	if !m.ready {
		return m.kind.NotProcessedMessage(), domain.ErrNotProcessed
	}
	if m.askErr != nil {
		return "Error in conversation: " + m.askErr.Error(), m.askErr
	}
	m.history = append(m.history,
		domain.ConversationTurn{Role: domain.RoleUser, Content: question},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: m.answer},
	)
	return m.answer, nil
}

func (m *mockProcessor) Reset() domain.ResetStatus {
	if len(m.history) == 0 {
		return domain.ResetNothing
	}
	m.history = nil
	return domain.ResetCleared
}

func (m *mockProcessor) History() []domain.ConversationTurn { return m.history }
func (m *mockProcessor) Ready() bool                        { return m.ready }

// mockWorkspace is a mock implementation of driving.Workspace.
type mockWorkspace struct {
	processors map[domain.SourceKind]*mockProcessor
}

func newMockWorkspace() *mockWorkspace {
	w := &mockWorkspace{processors: make(map[domain.SourceKind]*mockProcessor)}
	for _, k := range domain.AllSourceKinds() {
		w.processors[k] = &mockProcessor{kind: k, answer: "an answer"}
	}
	return w
}

func (m *mockWorkspace) Get(kind domain.SourceKind) (driving.SourceProcessor, error) {
	p, ok := m.processors[kind]
	if !ok {
		return nil, domain.NewUserError(domain.ErrUnsupportedType, "Unsupported source kind: "+kind.String())
	}
	return p, nil
}

func (m *mockWorkspace) Kinds() []domain.SourceKind { return domain.AllSourceKinds() }
