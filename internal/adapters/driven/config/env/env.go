// Package env reads ragdesk overrides from the process environment and an
// optional .env file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Config implements the interface.
var _ driven.SettingsOverlay = (*Config)(nil)

// Config holds every environment variable ragdesk understands.
// Zero values mean "not set" and leave the configured value alone.
type Config struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OllamaURL       string `env:"OLLAMA_URL"`

	EmbeddingProvider string `env:"RAGDESK_EMBEDDING_PROVIDER"`
	EmbeddingModel    string `env:"RAGDESK_EMBEDDING_MODEL"`
	LLMProvider       string `env:"RAGDESK_LLM_PROVIDER"`
	LLMModel          string `env:"RAGDESK_LLM_MODEL"`

	IndexBackend string `env:"RAGDESK_INDEX_BACKEND"`
	IndexDSN     string `env:"RAGDESK_INDEX_DSN"`

	TopK              int           `env:"RAGDESK_TOP_K"`
	MaxLinks          int           `env:"RAGDESK_MAX_LINKS"`
	RequestsPerSecond float64       `env:"RAGDESK_REQUESTS_PER_SECOND"`
	WebTimeout        time.Duration `env:"RAGDESK_WEB_TIMEOUT"`
	Downloader        string        `env:"RAGDESK_YTDLP"`
	TempDir           string        `env:"RAGDESK_TEMP_DIR"`
}

// Load reads .env files (default ".env") into the process environment and
// parses the result. Missing .env files are not an error; variables that
// are already set win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Parse reads a Config from an explicit environment map.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Apply overlays every set variable on settings. Provider API keys are
// matched to the provider each service uses after overrides.
func (c *Config) Apply(s *domain.Settings) {
	if s == nil {
		return
	}

	if p := domain.AIProvider(c.EmbeddingProvider); p.IsValid() {
		s.Embedding.Provider = p
	}
	if c.EmbeddingModel != "" {
		s.Embedding.Model = c.EmbeddingModel
	}
	if p := domain.AIProvider(c.LLMProvider); p.IsValid() {
		s.LLM.Provider = p
	}
	if c.LLMModel != "" {
		s.LLM.Model = c.LLMModel
	}

	if key := c.keyFor(s.Embedding.Provider); key != "" {
		s.Embedding.APIKey = key
	}
	if key := c.keyFor(s.LLM.Provider); key != "" {
		s.LLM.APIKey = key
	}
	if c.OpenAIAPIKey != "" {
		s.Transcription.APIKey = c.OpenAIAPIKey
	}
	if c.OllamaURL != "" {
		if s.Embedding.Provider == domain.AIProviderOllama {
			s.Embedding.BaseURL = c.OllamaURL
		}
		if s.LLM.Provider == domain.AIProviderOllama {
			s.LLM.BaseURL = c.OllamaURL
		}
	}

	if b := domain.IndexBackend(c.IndexBackend); b.IsValid() {
		s.Index.Backend = b
	}
	if c.IndexDSN != "" {
		s.Index.DSN = c.IndexDSN
	}
	if c.TopK > 0 {
		s.Retrieval.TopK = c.TopK
	}
	if c.MaxLinks > 0 {
		s.Web.MaxLinks = c.MaxLinks
	}
	if c.RequestsPerSecond > 0 {
		s.Web.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.WebTimeout > 0 {
		s.Web.Timeout = c.WebTimeout
	}
	if c.Downloader != "" {
		s.Video.Downloader = c.Downloader
	}
	if c.TempDir != "" {
		s.Video.TempDir = c.TempDir
	}
}

// keyFor returns the API key variable for provider, or "".
func (c *Config) keyFor(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return c.OpenAIAPIKey
	case domain.AIProviderAnthropic:
		return c.AnthropicAPIKey
	case domain.AIProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}
