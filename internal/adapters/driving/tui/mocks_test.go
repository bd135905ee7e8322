package tui

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// mockProcessor implements driving.SourceProcessor for testing.
type mockProcessor struct {
	kind  domain.SourceKind
	ready bool
}

func (m *mockProcessor) Kind() domain.SourceKind { return m.kind }

func (m *mockProcessor) Process(_ context.Context, ref string) domain.ProcessResult {
	m.ready = true
	return domain.Succeeded(m.kind, ref, "text", m.kind.Label()+" summary.", 1)
}

func (m *mockProcessor) Ask(_ context.Context, q string) (string, error) {
	if !m.ready {
		return m.kind.NotProcessedMessage(), domain.ErrNotProcessed
	}
	return "answer to " + q, nil
}

func (m *mockProcessor) Reset() domain.ResetStatus          { return domain.ResetNothing }
func (m *mockProcessor) History() []domain.ConversationTurn { return nil }
func (m *mockProcessor) Ready() bool                        { return m.ready }

// mockWorkspace implements driving.Workspace for testing.
type mockWorkspace struct {
	kinds  []domain.SourceKind
	getErr error
}

func newMockWorkspace() *mockWorkspace {
	return &mockWorkspace{kinds: domain.AllSourceKinds()}
}

func (m *mockWorkspace) Get(kind domain.SourceKind) (driving.SourceProcessor, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &mockProcessor{kind: kind}, nil
}

func (m *mockWorkspace) Kinds() []domain.SourceKind { return m.kinds }
