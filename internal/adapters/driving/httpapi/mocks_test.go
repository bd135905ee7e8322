package httpapi

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// mockProcessor is a mock implementation of driving.SourceProcessor.
type mockProcessor struct {
	kind    domain.SourceKind
	result  domain.ProcessResult
	answer  string
	askErr  error
	history []domain.ConversationTurn
	ready   bool
	refs    []string
}

func (m *mockProcessor) Kind() domain.SourceKind { return m.kind }

func (m *mockProcessor) Process(_ context.Context, ref string) domain.ProcessResult {
	m.refs = append(m.refs, ref)
	if m.result.Err == nil {
		m.ready = true
	}
	return m.result
}

func (m *mockProcessor) Ask(_ context.Context, question string) (string, error) {
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

// mockUploadProcessor also accepts in-memory uploads.
type mockUploadProcessor struct {
	mockProcessor
	name    string
	content []byte
}

func (m *mockUploadProcessor) ProcessContent(ctx context.Context, name string, content []byte) domain.ProcessResult {
	m.name = name
	m.content = content
	return m.Process(ctx, name)
}

// mockWorkspace is a mock implementation of driving.Workspace.
type mockWorkspace struct {
	processors map[domain.SourceKind]driving.SourceProcessor
}

func newMockWorkspace() (*mockWorkspace, *mockProcessor, *mockProcessor, *mockUploadProcessor) {
	video := &mockProcessor{kind: domain.SourceVideo, answer: "an answer"}
	website := &mockProcessor{kind: domain.SourceWebsite, answer: "an answer"}
	document := &mockUploadProcessor{mockProcessor: mockProcessor{kind: domain.SourceDocument, answer: "an answer"}}
	return &mockWorkspace{processors: map[domain.SourceKind]driving.SourceProcessor{
		domain.SourceVideo:    video,
		domain.SourceWebsite:  website,
		domain.SourceDocument: document,
	}}, video, website, document
}

func (m *mockWorkspace) Get(kind domain.SourceKind) (driving.SourceProcessor, error) {
	p, ok := m.processors[kind]
	if !ok {
		return nil, domain.NewUserError(domain.ErrUnsupportedType, "Unsupported source kind: "+kind.String())
	}
	return p, nil
}

func (m *mockWorkspace) Kinds() []domain.SourceKind { return domain.AllSourceKinds() }
