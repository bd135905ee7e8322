package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/web"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/normalisers"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = f.Embed(ctx, t)
	}
	return out, nil
}

func (fakeEmbedder) Dimensions() int            { return 2 }
func (fakeEmbedder) ModelName() string          { return "fake" }
func (fakeEmbedder) Ping(context.Context) error { return nil }
func (fakeEmbedder) Close() error               { return nil }

type fakeLLM struct{}

func (fakeLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "generated", nil
}

func (fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	if strings.Contains(messages[0].Content, "summar") {
		return "a summary", nil
	}
	return "an answer", nil
}

func (fakeLLM) RewriteQuery(_ context.Context, _ []driven.ChatMessage, q string) (string, error) {
	return q, nil
}

func (fakeLLM) ModelName() string          { return "fake" }
func (fakeLLM) Ping(context.Context) error { return nil }
func (fakeLLM) Close() error               { return nil }

func fakeDeps() Deps {
	return Deps{
		Embedder:    fakeEmbedder{},
		LLM:         fakeLLM{},
		Indexes:     memory.Factory{},
		Fetcher:     web.NewFetcher(web.FetcherConfig{}),
		Selector:    web.NewHeuristicSelector(0),
		Normalisers: normalisers.Default(),
	}
}

func TestNewWorkspace_Kinds(t *testing.T) {
	settings := domain.DefaultSettings()

	ws, err := NewWorkspace(&settings, fakeDeps())
	require.NoError(t, err)

	assert.Equal(t, domain.AllSourceKinds(), ws.Kinds())
	for _, kind := range ws.Kinds() {
		p, err := ws.Get(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, p.Kind())
		assert.False(t, p.Ready())
	}
}

func TestNewWorkspace_DocumentRoundTrip(t *testing.T) {
	settings := domain.DefaultSettings()
	ws, err := NewWorkspace(&settings, fakeDeps())
	require.NoError(t, err)
	defer ws.Close()

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\n\nThe bridge crosses the river."), 0600))

	doc, err := ws.Get(domain.SourceDocument)
	require.NoError(t, err)
	result := doc.Process(context.Background(), path)
	require.True(t, result.OK(), result.Message())
	assert.Equal(t, "a summary", result.Summary)
	assert.Contains(t, result.Text, "bridge crosses the river")

	answer, err := doc.Ask(context.Background(), "What crosses the river?")
	require.NoError(t, err)
	assert.Equal(t, "an answer", answer)

	video, err := ws.Get(domain.SourceVideo)
	require.NoError(t, err)
	assert.False(t, video.Ready(), "domains do not share state")
}

func TestNewWorkspace_VideoWithoutTranscriber(t *testing.T) {
	settings := domain.DefaultSettings()
	ws, err := NewWorkspace(&settings, fakeDeps())
	require.NoError(t, err)

	video, err := ws.Get(domain.SourceVideo)
	require.NoError(t, err)
	result := video.Process(context.Background(), "https://youtu.be/abc123")

	assert.ErrorIs(t, result.Err, domain.ErrTranscriptionUnavailable)
}

func TestNewWorkspace_UsesRetrievalSettings(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Retrieval.TopK = 9

	ws, err := NewWorkspace(&settings, fakeDeps())
	require.NoError(t, err)

	doc, err := ws.Get(domain.SourceDocument)
	require.NoError(t, err)
	svc, ok := doc.(*services.DocumentService)
	require.True(t, ok)
	assert.Equal(t, 9, svc.Config().TopK)
	assert.Equal(t, driven.PromptChatDocument, svc.Config().PromptName)
}

func TestNewWorkspace_MissingLLM(t *testing.T) {
	settings := domain.DefaultSettings()
	deps := fakeDeps()
	deps.LLM = nil

	_, err := NewWorkspace(&settings, deps)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
