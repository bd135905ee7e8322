package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// TranscriptionSettings configures the speech-to-text service.
// Only the OpenAI transcription endpoint is supported.
type TranscriptionSettings struct {
	Model   string
	BaseURL string
	APIKey  string
}

// IsConfigured returns true if transcription can be attempted.
func (t TranscriptionSettings) IsConfigured() bool {
	return t.APIKey != ""
}

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendMemory is an exact brute-force cosine scan.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendChromem uses an in-process chromem-go collection.
	IndexBackendChromem IndexBackend = "chromem"

	// IndexBackendSQLite stores vectors in SQLite and scans them in Go.
	IndexBackendSQLite IndexBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendMemory, IndexBackendChromem, IndexBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	Backend IndexBackend

	// DSN is the SQLite data source. Empty means an in-memory database.
	DSN string
}

// RetrievalSettings tunes the conversation engine.
type RetrievalSettings struct {
	// TopK is how many chunks are retrieved per question.
	TopK int

	// RewriteFollowUps condenses follow-up questions into standalone
	// queries using the conversation history before retrieval.
	RewriteFollowUps bool
}

// WebSettings tunes website fetching.
type WebSettings struct {
	// MaxLinks caps how many linked pages are fetched per site.
	MaxLinks int

	// RequestsPerSecond throttles page fetches.
	RequestsPerSecond float64

	// Timeout bounds each page fetch.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// VideoSettings tunes audio download.
type VideoSettings struct {
	// Downloader is the yt-dlp executable name or path.
	Downloader string

	// TempDir receives downloaded audio. Empty means os.TempDir().
	TempDir string
}

// SummarySettings tunes one-shot summaries.
type SummarySettings struct {
	// MaxInputChars truncates the text sent to the summariser.
	MaxInputChars int
}

// Settings holds all application settings. It is built once at start-up
// and passed explicitly to the components that need it.
type Settings struct {
	Embedding     EmbeddingSettings
	LLM           LLMSettings
	Transcription TranscriptionSettings
	Index         IndexSettings
	Retrieval     RetrievalSettings
	Web           WebSettings
	Video         VideoSettings
	Summary       SummarySettings
}

// DefaultSettings returns settings with sensible defaults.
// API keys are left empty and normally arrive from the environment.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		Transcription: TranscriptionSettings{
			Model: "whisper-1",
		},
		Index: IndexSettings{
			Backend: IndexBackendMemory,
		},
		Retrieval: RetrievalSettings{
			TopK:             4,
			RewriteFollowUps: true,
		},
		Web: WebSettings{
			MaxLinks:          8,
			RequestsPerSecond: 2,
			Timeout:           20 * time.Second,
			UserAgent:         "ragdesk/0.1 (+https://github.com/custodia-labs/ragdesk)",
		},
		Video: VideoSettings{
			Downloader: "yt-dlp",
		},
		Summary: SummarySettings{
			MaxInputChars: 4000,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}
