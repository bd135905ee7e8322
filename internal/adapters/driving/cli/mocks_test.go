package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for tests.
type mockSettingsService struct {
	settings       domain.Settings
	validateErr    error
	pingErr        error
	embeddingCalls []string
	llmCalls       []string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings()}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embeddingCalls = append(m.embeddingCalls, string(provider)+"|"+model+"|"+apiKey)
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmCalls = append(m.llmCalls, string(provider)+"|"+model+"|"+apiKey)
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetIndexBackend(backend domain.IndexBackend) error {
	m.settings.Index.Backend = backend
	return nil
}

func (m *mockSettingsService) Validate() error                { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.Settings   { return domain.DefaultSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }
func (m *mockSettingsService) ValidateLLMConfig() error       { return m.pingErr }

// mockProcessor implements driving.SourceProcessor for tests.
type mockProcessor struct {
	kind      domain.SourceKind
	result    domain.ProcessResult
	answer    string
	askErr    error
	ready     bool
	history   []domain.ConversationTurn
	refs      []string
	questions []string
}

func (m *mockProcessor) Kind() domain.SourceKind { return m.kind }

func (m *mockProcessor) Process(_ context.Context, ref string) domain.ProcessResult {
	m.refs = append(m.refs, ref)
	m.result.Kind = m.kind
	m.result.Source = ref
	if m.result.OK() {
		m.ready = true
		m.history = nil
	}
	return m.result
}

func (m *mockProcessor) Ask(_ context.Context, question string) (string, error) {
	m.questions = append(m.questions, question)
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

// mockWorkspace implements driving.Workspace for tests.
type mockWorkspace struct {
	processors map[domain.SourceKind]*mockProcessor
}

func (m *mockWorkspace) Get(kind domain.SourceKind) (driving.SourceProcessor, error) {
	p, ok := m.processors[kind]
	if !ok {
		return nil, domain.NewUserError(domain.ErrUnsupportedType, "Unsupported source kind: "+kind.String())
	}
	return p, nil
}

func (m *mockWorkspace) Kinds() []domain.SourceKind { return domain.AllSourceKinds() }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	settings  *mockSettingsService
	workspace *mockWorkspace
}

func (s *testServices) processor(kind domain.SourceKind) *mockProcessor {
	return s.workspace.processors[kind]
}

// setupTestServices installs mock services for the duration of the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ws := &mockWorkspace{processors: map[domain.SourceKind]*mockProcessor{}}
	for _, kind := range domain.AllSourceKinds() {
		ws.processors[kind] = &mockProcessor{
			kind:   kind,
			result: domain.Succeeded(kind, "", "the extracted text", "A short summary.", 3),
			answer: "an answer",
		}
	}
	svc := &testServices{settings: newMockSettingsService(), workspace: ws}

	origSettings, origLoader := settingsService, workspaceLoader
	settingsService = svc.settings
	workspaceLoader = func() (driving.Workspace, error) { return ws, nil }
	t.Cleanup(func() {
		settingsService = origSettings
		workspaceLoader = origLoader
	})
	return svc
}

// execute runs the root command with args and stdin and returns the output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the command tree to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
