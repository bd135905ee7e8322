package driven

import "github.com/custodia-labs/ragdesk/internal/core/domain"

// AIConfigValidator checks AI provider configurations by pinging the
// underlying services before they are saved.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by config.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider described by config.
	ValidateLLM(config *domain.LLMSettings) error
}
