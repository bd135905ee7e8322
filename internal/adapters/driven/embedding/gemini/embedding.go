// Package gemini provides an embedding service adapter using the Google
// Gemini API through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"google.golang.org/genai"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel        = "text-embedding-004"
	DefaultDimensions   = 768
	DefaultMaxBatchSize = 100
)

// models is the subset of *genai.Models used here.
type models interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// MaxBatchSize caps contents per request (default: 100).
	MaxBatchSize int
}

// EmbeddingService generates embeddings using Gemini.
type EmbeddingService struct {
	models     models
	model      string
	dimensions atomic.Int64
	maxBatch   int
}

// NewEmbeddingService creates a Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
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

func newService(m models, cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	s := &EmbeddingService{
		models:   m,
		model:    cfg.Model,
		maxBatch: cfg.MaxBatchSize,
	}
	s.dimensions.Store(DefaultDimensions)
	return s
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates one embedding per text.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.maxBatch {
		end := min(start+s.maxBatch, len(texts))
		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}

		resp, err := s.models.EmbedContent(ctx, s.model, contents, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: gemini embeddings: %w", domain.ErrService, err)
		}
		if resp == nil || len(resp.Embeddings) != len(contents) {
			got := 0
			if resp != nil {
				got = len(resp.Embeddings)
			}
			return nil, fmt.Errorf("%w: gemini embeddings: got %d embeddings for %d inputs",
				domain.ErrService, got, len(contents))
		}
		for _, e := range resp.Embeddings {
			out = append(out, e.Values)
		}
	}

	if len(out[0]) > 0 {
		s.dimensions.Store(int64(len(out[0])))
	}
	return out, nil
}

// Dimensions returns the vector size seen in the last response, or
// DefaultDimensions before the first call. Safe for concurrent use.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping looks up the configured model, which validates the key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
