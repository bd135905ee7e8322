package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// vocabulary gives the mock embedder one dimension per word, so texts
// sharing words end up close together.
var vocabulary = []string{
	"rocket", "engine", "fuel", "orbit", "pricing", "plan", "team", "career",
	"recipe", "flour", "oven", "bread", "river", "bridge", "music", "guitar",
}

type mockEmbedder struct {
	mu       sync.Mutex
	batchErr error
	queryErr error
	short    bool // return one vector fewer than asked
	dims     int  // reported size, when set
	queries  []string
	batches  int
}

func (m *mockEmbedder) vector(text string) []float32 {
	v := make([]float32, len(vocabulary)+1)
	v[len(vocabulary)] = 0.01
	lower := strings.ToLower(text)
	for i, word := range vocabulary {
		v[i] = float32(strings.Count(lower, word))
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, text)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) lastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queries) == 0 {
		return ""
	}
	return m.queries[len(m.queries)-1]
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(vocabulary) + 1
}

func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

type mockLLM struct {
	mu           sync.Mutex
	chatReply    string
	chatErr      error
	rewriteReply string
	rewriteErr   error
	chats        [][]driven.ChatMessage
	chatOpts     []driven.ChatOptions
	rewrites     int
}

func (m *mockLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats = append(m.chats, messages)
	m.chatOpts = append(m.chatOpts, opts)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if m.chatReply == "" {
		return "an answer", nil
	}
	return m.chatReply, nil
}

func (m *mockLLM) RewriteQuery(_ context.Context, _ []driven.ChatMessage, question string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewrites++
	if m.rewriteErr != nil {
		return "", m.rewriteErr
	}
	if m.rewriteReply == "" {
		return question, nil
	}
	return m.rewriteReply, nil
}

func (m *mockLLM) chatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

func (m *mockLLM) lastChat() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.chats) == 0 {
		return nil
	}
	return m.chats[len(m.chats)-1]
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("no prompt")
}

func (m *mockPromptStore) Reload() {}

// failingFactory refuses to create indexes.
type failingFactory struct{}

func (failingFactory) New(context.Context, string) (driven.VectorIndex, error) {
	return nil, errors.New("no space left")
}

// mockDownloader writes a fake audio file so removal can be observed.
type mockDownloader struct {
	err  error
	path string
}

func (m *mockDownloader) Download(_ context.Context, videoID, dir string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.path = filepath.Join(dir, "temp_audio_"+videoID+".mp3")
	return m.path, os.WriteFile(m.path, []byte("ID3"), 0600)
}

type mockTranscriber struct {
	text string
	err  error
	seen string
}

func (m *mockTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	m.seen = audioPath
	return m.text, m.err
}

type mockFetcher struct {
	pages   map[string]*domain.Page
	fetched []string
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (*domain.Page, error) {
	m.fetched = append(m.fetched, url)
	if p, ok := m.pages[url]; ok {
		return p, nil
	}
	return nil, errors.New("404 not found")
}

type mockSelector struct {
	links []domain.Link
	err   error
}

func (m *mockSelector) Select(context.Context, string, []string) ([]domain.Link, error) {
	return m.links, m.err
}

type mockNormaliser struct {
	exts []string
	text string
	err  error
}

func (m *mockNormaliser) SupportedExtensions() []string { return m.exts }

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	text := m.text
	if text == "" {
		text = string(raw.Content)
	}
	return &driven.NormaliseResult{Title: raw.BaseTitle(), Text: text, Format: "mock"}, nil
}

type mockRegistry struct {
	normalisers map[string]driven.Normaliser
}

func (m *mockRegistry) For(ext string) (driven.Normaliser, error) {
	if n, ok := m.normalisers[strings.ToLower(ext)]; ok {
		return n, nil
	}
	return nil, domain.ErrUnsupportedFormat
}

func (m *mockRegistry) Extensions() []string {
	var out []string
	for ext := range m.normalisers {
		out = append(out, ext)
	}
	return out
}
