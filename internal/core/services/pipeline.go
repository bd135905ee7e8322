package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure RetrievalPipeline implements the interface.
var _ driving.Conversation = (*RetrievalPipeline)(nil)

// Pipeline defaults.
const (
	DefaultTopK        = 4
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// PipelineConfig parameterises a RetrievalPipeline for one source kind.
// The chunk profile is carried by the pipeline's Splitter.
type PipelineConfig struct {
	// Kind names the domain in sentinel and error messages.
	Kind domain.SourceKind

	// PromptName is the PromptStore entry for the system prompt.
	PromptName string

	// SystemPrompt is used when the store has no override.
	SystemPrompt string

	// TopK is how many chunks are retrieved per question (default 4).
	TopK int

	// Temperature for answer generation (default 0.7).
	Temperature float64

	// MaxTokens bounds each answer (default 1024).
	MaxTokens int

	// RewriteFollowUps condenses follow-up questions with the history
	// before retrieval.
	RewriteFollowUps bool
}

// PipelineDeps are the driven ports a pipeline calls.
type PipelineDeps struct {
	Splitter driven.Splitter
	Embedder driven.EmbeddingService
	LLM      driven.LLMService
	Indexes  driven.IndexFactory

	// Prompts is optional.
	Prompts driven.PromptStore
}

func (d PipelineDeps) validate() error {
	switch {
	case d.Splitter == nil:
		return fmt.Errorf("%w: pipeline needs a splitter", domain.ErrValidation)
	case d.Embedder == nil:
		return domain.ErrEmbeddingUnavailable
	case d.LLM == nil:
		return domain.ErrLLMUnavailable
	case d.Indexes == nil:
		return fmt.Errorf("%w: pipeline needs an index factory", domain.ErrValidation)
	}
	return nil
}

// RetrievalPipeline owns one knowledge base and the conversation over it:
// chunk, embed and index a text, then answer questions with the most
// similar chunks as context.
//
// All state sits behind one mutex. Ask holds it for the whole exchange so
// turns are appended in order; Build does its network work unlocked and
// only takes the lock to swap in the new index.
type RetrievalPipeline struct {
	cfg  PipelineConfig
	deps PipelineDeps

	mu    sync.Mutex
	state conversationState
}

// conversationState is the knowledge base and the dialogue over it.
// Both are replaced together when a source is reprocessed.
type conversationState struct {
	History []domain.ConversationTurn
	Index   driven.VectorIndex
}

// NewRetrievalPipeline creates a pipeline with no knowledge base.
func NewRetrievalPipeline(cfg PipelineConfig, deps PipelineDeps) (*RetrievalPipeline, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = cfg.Kind.DefaultChatPrompt()
	}
	return &RetrievalPipeline{cfg: cfg, deps: deps}, nil
}

// Config returns the effective configuration.
func (p *RetrievalPipeline) Config() PipelineConfig {
	return p.cfg
}

// Build chunks, embeds and indexes text, then replaces the knowledge base
// and clears the history. On failure the previous state is untouched.
// It returns the number of chunks indexed.
func (p *RetrievalPipeline) Build(ctx context.Context, text string) (int, error) {
	chunks := p.deps.Splitter.Split(text)
	logger.Debug("%s: split into %d chunks (profile %+v)", p.cfg.Kind, len(chunks), p.deps.Splitter.Profile())
	if len(chunks) == 0 {
		return 0, fmt.Errorf("build %s index: %w", p.cfg.Kind, domain.ErrEmptyInput)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.deps.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s chunks: %w", p.cfg.Kind, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrService, len(vectors), len(chunks))
	}
	if err := checkVectors(p.deps.Embedder, vectors); err != nil {
		return 0, fmt.Errorf("embed %s chunks: %w", p.cfg.Kind, err)
	}

	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i, c := range chunks {
		embedded[i] = domain.EmbeddedChunk{Chunk: c, Vector: vectors[i]}
	}

	index, err := BuildIndex(ctx, p.deps.Indexes, p.cfg.Kind.String(), embedded)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	old := p.state.Index
	p.state = conversationState{Index: index}
	p.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logger.Warn("%s: closing previous index: %v", p.cfg.Kind, err)
		}
	}
	logger.Info("%s: indexed %d chunks", p.cfg.Kind, len(chunks))
	return len(chunks), nil
}

// Ask answers question from the knowledge base and prior turns.
func (p *RetrievalPipeline) Ask(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Index == nil {
		return p.cfg.Kind.NotProcessedMessage(), domain.ErrNotProcessed
	}

	query := p.standaloneQuery(ctx, question)

	hits, err := p.search(ctx, p.state.Index, query, p.cfg.TopK)
	if err != nil {
		return p.errorAnswer(err), err
	}
	logger.Debug("%s: retrieved %d chunks for %q", p.cfg.Kind, len(hits), query)

	answer, err := p.deps.LLM.Chat(ctx, p.messages(hits, question), driven.ChatOptions{
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return p.errorAnswer(err), err
	}

	p.state.History = append(p.state.History,
		domain.ConversationTurn{Role: domain.RoleUser, Content: question},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: answer},
	)
	return answer, nil
}

// Search returns the k chunks most similar to query without generating.
func (p *RetrievalPipeline) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Index == nil {
		return nil, domain.ErrNotProcessed
	}
	return p.search(ctx, p.state.Index, query, k)
}

// Reset clears the history and keeps the knowledge base.
func (p *RetrievalPipeline) Reset() domain.ResetStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.state.History) == 0 {
		return domain.ResetNothing
	}
	p.state.History = nil
	return domain.ResetCleared
}

// History returns a copy of the conversation so far.
func (p *RetrievalPipeline) History() []domain.ConversationTurn {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.ConversationTurn, len(p.state.History))
	copy(out, p.state.History)
	return out
}

// Ready reports whether a knowledge base has been built.
func (p *RetrievalPipeline) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Index != nil
}

// Close releases the knowledge base.
func (p *RetrievalPipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Index == nil {
		return nil
	}
	err := p.state.Index.Close()
	p.state = conversationState{}
	return err
}

// standaloneQuery condenses a follow-up into a self-contained query.
// Failures fall back to the raw question. Caller holds p.mu.
func (p *RetrievalPipeline) standaloneQuery(ctx context.Context, question string) string {
	if !p.cfg.RewriteFollowUps || len(p.state.History) == 0 {
		return question
	}

	history := make([]driven.ChatMessage, len(p.state.History))
	for i, turn := range p.state.History {
		history[i] = driven.ChatMessage{Role: string(turn.Role), Content: turn.Content}
	}

	rewritten, err := p.deps.LLM.RewriteQuery(ctx, history, question)
	if err != nil {
		logger.Warn("%s: query rewrite failed, using the question as asked: %v", p.cfg.Kind, err)
		return question
	}
	if strings.TrimSpace(rewritten) == "" {
		return question
	}
	logger.Debug("%s: rewrote %q as %q", p.cfg.Kind, question, rewritten)
	return rewritten
}

func (p *RetrievalPipeline) search(
	ctx context.Context, index driven.VectorIndex, query string, k int,
) ([]domain.ScoredChunk, error) {
	vector, err := p.deps.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return index.Search(ctx, vector, k)
}

// messages assembles the system prompt with the retrieved context, the
// prior turns and the new question. Caller holds p.mu.
func (p *RetrievalPipeline) messages(hits []domain.ScoredChunk, question string) []driven.ChatMessage {
	var system strings.Builder
	system.WriteString(p.systemPrompt())
	system.WriteString("\n\nContext:\n")
	for i, hit := range hits {
		if i > 0 {
			system.WriteString("\n\n")
		}
		system.WriteString(hit.Chunk.Text)
	}

	msgs := make([]driven.ChatMessage, 0, len(p.state.History)+2)
	msgs = append(msgs, driven.ChatMessage{Role: string(domain.RoleSystem), Content: system.String()})
	for _, turn := range p.state.History {
		msgs = append(msgs, driven.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	msgs = append(msgs, driven.ChatMessage{Role: string(domain.RoleUser), Content: question})
	return msgs
}

func (p *RetrievalPipeline) systemPrompt() string {
	if p.deps.Prompts == nil || p.cfg.PromptName == "" {
		return p.cfg.SystemPrompt
	}
	prompt, err := p.deps.Prompts.Load(p.cfg.PromptName)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return p.cfg.SystemPrompt
	}
	return prompt
}

// errorAnswer is the answer-shaped text shown when generation fails.
func (p *RetrievalPipeline) errorAnswer(err error) string {
	return fmt.Sprintf("Error in %s conversation: %v", strings.ToLower(p.cfg.Kind.Label()), err)
}

// checkVectors rejects vectors whose size differs from the model's.
func checkVectors(embedder driven.EmbeddingService, vectors [][]float32) error {
	dim := embedder.Dimensions()
	if dim <= 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, %s produces %d",
				domain.ErrDimensionMismatch, i, len(v), embedder.ModelName(), dim)
		}
	}
	return nil
}

// BuildIndex creates a fresh index from factory and fills it with chunks.
// An empty chunk list fails with domain.ErrEmptyInput.
func BuildIndex(
	ctx context.Context, factory driven.IndexFactory, name string, chunks []domain.EmbeddedChunk,
) (driven.VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("build %s index: %w", name, domain.ErrEmptyInput)
	}

	index, err := factory.New(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create %s index: %w", name, err)
	}
	if err := index.Add(ctx, chunks); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("fill %s index: %w", name, err)
	}
	return index, nil
}
