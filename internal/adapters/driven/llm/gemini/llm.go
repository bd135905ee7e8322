// Package gemini provides an LLM service adapter using the Google Gemini
// API through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/prompting"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure LLMService implements the interfaces.
var (
	_ driven.LLMService       = (*LLMService)(nil)
	_ driven.PromptStoreAware = (*LLMService)(nil)
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// models is the subset of *genai.Models used here.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-2.0-flash).
	Model string
}

// LLMService provides LLM operations using Gemini.
type LLMService struct {
	models      models
	model       string
	promptStore driven.PromptStore
}

// NewLLMService creates a Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newService(client.Models, cfg), nil
}

func newService(m models, cfg Config) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &LLMService{models: m, model: cfg.Model}
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := generationConfig(opts.MaxTokens, opts.Temperature)
	config.StopSequences = opts.StopWords
	return s.generate(ctx, contents, config)
}

// Chat conducts a multi-turn conversation. System messages become the
// request's system instruction.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := generationConfig(opts.MaxTokens, opts.Temperature)
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return s.generate(ctx, contents, config)
}

func generationConfig(maxTokens int, temperature float64) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens) //nolint:gosec // bounded by caller settings
	}
	return config
}

func (s *LLMService) generate(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (string, error) {
	resp, err := s.models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %w", domain.ErrService, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini generate: empty response", domain.ErrService)
	}
	return text, nil
}

// RewriteQuery condenses a follow-up question into a standalone query.
func (s *LLMService) RewriteQuery(ctx context.Context, history []driven.ChatMessage, question string) (string, error) {
	return prompting.RewriteQuery(ctx, s.Generate, s.promptStore, history, question)
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping looks up the configured model, which validates the key.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
