package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keySTTModel          = "transcription.model"
	keySTTAPIKey         = "transcription.api_key"
	keyIndexBackend      = "index.backend"
	keyIndexDSN          = "index.dsn"
	keyTopK              = "retrieval.top_k"
	keyRewriteFollowUps  = "retrieval.rewrite_follow_ups"
	keyMaxLinks          = "web.max_links"
	keyRequestsPerSecond = "web.requests_per_second"
	keyWebTimeout        = "web.timeout"
	keyUserAgent         = "web.user_agent"
	keyDownloader        = "video.downloader"
	keyTempDir           = "video.temp_dir"
	keySummaryMaxChars   = "summary.max_input_chars"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService builds the effective settings from defaults, the config
// store and an optional overlay (normally the environment).
type SettingsService struct {
	configStore driven.ConfigStore
	overlay     driven.SettingsOverlay
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service. overlay and
// aiValidator may be nil.
func NewSettingsService(
	configStore driven.ConfigStore,
	overlay driven.SettingsOverlay,
	aiValidator driven.AIConfigValidator,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		overlay:     overlay,
		aiValidator: aiValidator,
	}
}

// Get returns the effective settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := s.stored()
	if s.overlay != nil {
		s.overlay.Apply(settings)
	}
	return settings, nil
}

// stored returns defaults overlaid with the config store only.
func (s *SettingsService) stored() *domain.Settings {
	d := domain.DefaultSettings()

	return &domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:    s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Transcription: domain.TranscriptionSettings{
			Model:  s.getString(keySTTModel, d.Transcription.Model),
			APIKey: s.configStore.GetString(keySTTAPIKey),
		},
		Index: domain.IndexSettings{
			Backend: s.getIndexBackend(d.Index.Backend),
			DSN:     s.configStore.GetString(keyIndexDSN),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:             s.getInt(keyTopK, d.Retrieval.TopK),
			RewriteFollowUps: s.getBool(keyRewriteFollowUps, d.Retrieval.RewriteFollowUps),
		},
		Web: domain.WebSettings{
			MaxLinks:          s.getInt(keyMaxLinks, d.Web.MaxLinks),
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, d.Web.RequestsPerSecond),
			Timeout:           s.getDuration(keyWebTimeout, d.Web.Timeout),
			UserAgent:         s.getString(keyUserAgent, d.Web.UserAgent),
		},
		Video: domain.VideoSettings{
			Downloader: s.getString(keyDownloader, d.Video.Downloader),
			TempDir:    s.configStore.GetString(keyTempDir),
		},
		Summary: domain.SummarySettings{
			MaxInputChars: s.getInt(keySummaryMaxChars, d.Summary.MaxInputChars),
		},
	}
}

// Save persists settings to the config store. API keys supplied by the
// overlay are left out so secrets from the environment never reach disk.
func (s *SettingsService) Save(settings *domain.Settings) error {
	overlaid := s.overlayKeys(settings)

	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keySTTModel, settings.Transcription.Model},
		{keyIndexBackend, settings.Index.Backend.String()},
		{keyIndexDSN, settings.Index.DSN},
		{keyTopK, settings.Retrieval.TopK},
		{keyRewriteFollowUps, settings.Retrieval.RewriteFollowUps},
		{keyMaxLinks, settings.Web.MaxLinks},
		{keyRequestsPerSecond, settings.Web.RequestsPerSecond},
		{keyWebTimeout, settings.Web.Timeout.String()},
		{keyUserAgent, settings.Web.UserAgent},
		{keyDownloader, settings.Video.Downloader},
		{keyTempDir, settings.Video.TempDir},
		{keySummaryMaxChars, settings.Summary.MaxInputChars},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key, value, fromOverlay string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey, overlaid.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey, overlaid.LLM.APIKey},
		{keySTTAPIKey, settings.Transcription.APIKey, overlaid.Transcription.APIKey},
	}
	for _, sec := range secrets {
		if sec.value == "" || sec.value == sec.fromOverlay {
			continue
		}
		if err := s.configStore.Set(sec.key, sec.value); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// overlayKeys returns the API keys the overlay would supply for the
// providers in settings.
func (s *SettingsService) overlayKeys(settings *domain.Settings) domain.Settings {
	probe := domain.Settings{
		Embedding: domain.EmbeddingSettings{Provider: settings.Embedding.Provider},
		LLM:       domain.LLMSettings{Provider: settings.LLM.Provider},
	}
	if s.overlay != nil {
		s.overlay.Apply(&probe)
	}
	return probe
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrValidation, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrValidation, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.overlayKeys(withEmbedding(settings, provider)).Embedding.APIKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrValidation, provider)
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrValidation, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.overlayKeys(withLLM(settings, provider)).LLM.APIKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrValidation, provider)
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetIndexBackend selects the vector index backend.
func (s *SettingsService) SetIndexBackend(backend domain.IndexBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid index backend: %s", domain.ErrValidation, backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Index.Backend = backend
	return s.Save(settings)
}

// Validate checks that the current settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: embedding provider %q needs an API key",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: LLM provider %q needs an API key",
			domain.ErrLLMUnavailable, settings.LLM.Provider))
	}
	if !settings.Index.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: invalid index backend %q",
			domain.ErrValidation, settings.Index.Backend))
	}
	if settings.Retrieval.TopK <= 0 {
		errs = append(errs, fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrValidation))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func withEmbedding(s *domain.Settings, p domain.AIProvider) *domain.Settings {
	c := *s
	c.Embedding.Provider = p
	return &c
}

func withLLM(s *domain.Settings, p domain.AIProvider) *domain.Settings {
	c := *s
	c.LLM.Provider = p
	return &c
}

func modelOrDefault(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

// baseURLFor keeps a custom URL for local providers and clears it for
// cloud ones, which use their own endpoint.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration parses duration strings like "20s" or "1m30s".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getIndexBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	backend := domain.IndexBackend(s.configStore.GetString(keyIndexBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
