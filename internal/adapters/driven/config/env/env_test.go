package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"OPENAI_API_KEY":              "sk-test",
		"RAGDESK_TOP_K":               "6",
		"RAGDESK_REQUESTS_PER_SECOND": "1.5",
		"RAGDESK_WEB_TIMEOUT":         "45s",
	})

	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 6, cfg.TopK)
	assert.Equal(t, 1.5, cfg.RequestsPerSecond)
	assert.Equal(t, 45*time.Second, cfg.WebTimeout)
}

func TestParse_InvalidNumber(t *testing.T) {
	_, err := Parse(map[string]string{"RAGDESK_TOP_K": "many"})
	assert.Error(t, err)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RAGDESK_TEST_ONLY_MODEL=from-file\nRAGDESK_LLM_MODEL=from-file\n"), 0600))
	t.Setenv("RAGDESK_LLM_MODEL", "from-env")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLMModel)
	assert.Equal(t, "from-file", os.Getenv("RAGDESK_TEST_ONLY_MODEL"))
	_ = os.Unsetenv("RAGDESK_TEST_ONLY_MODEL")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		check func(t *testing.T, s domain.Settings)
	}{
		{
			name: "empty config leaves defaults",
			cfg:  Config{},
			check: func(t *testing.T, s domain.Settings) {
				assert.Equal(t, domain.DefaultSettings(), s)
			},
		},
		{
			name: "openai key feeds every openai service",
			cfg:  Config{OpenAIAPIKey: "sk"},
			check: func(t *testing.T, s domain.Settings) {
				assert.Equal(t, "sk", s.Embedding.APIKey)
				assert.Equal(t, "sk", s.LLM.APIKey)
				assert.Equal(t, "sk", s.Transcription.APIKey)
			},
		},
		{
			name: "provider override picks matching key",
			cfg: Config{
				OpenAIAPIKey:    "sk",
				AnthropicAPIKey: "ant",
				LLMProvider:     "anthropic",
				LLMModel:        "claude-3-5-haiku-latest",
			},
			check: func(t *testing.T, s domain.Settings) {
				assert.Equal(t, domain.AIProviderAnthropic, s.LLM.Provider)
				assert.Equal(t, "claude-3-5-haiku-latest", s.LLM.Model)
				assert.Equal(t, "ant", s.LLM.APIKey)
				assert.Equal(t, "sk", s.Embedding.APIKey)
			},
		},
		{
			name: "ollama url only for ollama providers",
			cfg:  Config{OllamaURL: "http://gpu:11434", EmbeddingProvider: "ollama"},
			check: func(t *testing.T, s domain.Settings) {
				assert.Equal(t, "http://gpu:11434", s.Embedding.BaseURL)
				assert.Empty(t, s.LLM.BaseURL)
			},
		},
		{
			name: "invalid provider ignored",
			cfg:  Config{EmbeddingProvider: "nope", IndexBackend: "redis"},
			check: func(t *testing.T, s domain.Settings) {
				assert.Equal(t, domain.AIProviderOpenAI, s.Embedding.Provider)
				assert.Equal(t, domain.IndexBackendMemory, s.Index.Backend)
			},
		},
		{
			name: "tuning values",
			cfg: Config{
				IndexBackend: "sqlite", IndexDSN: "file:x.db", TopK: 8, MaxLinks: 2,
				RequestsPerSecond: 5, WebTimeout: time.Minute, Downloader: "/opt/yt-dlp", TempDir: "/scratch",
			},
			check: func(t *testing.T, s domain.Settings) {
				assert.Equal(t, domain.IndexBackendSQLite, s.Index.Backend)
				assert.Equal(t, "file:x.db", s.Index.DSN)
				assert.Equal(t, 8, s.Retrieval.TopK)
				assert.Equal(t, 2, s.Web.MaxLinks)
				assert.Equal(t, 5.0, s.Web.RequestsPerSecond)
				assert.Equal(t, time.Minute, s.Web.Timeout)
				assert.Equal(t, "/opt/yt-dlp", s.Video.Downloader)
				assert.Equal(t, "/scratch", s.Video.TempDir)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			tt.cfg.Apply(&s)
			tt.check(t, s)
		})
	}
}

func TestApply_NilSettings(t *testing.T) {
	(&Config{OpenAIAPIKey: "sk"}).Apply(nil)
}
