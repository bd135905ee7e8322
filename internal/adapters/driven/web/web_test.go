package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

func TestParseURL(t *testing.T) {
	u, err := ParseURL("example.com/about")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/about", u.String())

	for _, bad := range []string{"", "   ", "ftp://example.com", "http://"} {
		_, err := ParseURL(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}

func TestFetcher_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Acme</title></head><body>
			<h1>Welcome</h1><p>We build rockets.</p>
			<a href="/about">About</a>
			<a href="/privacy">Privacy</a></body></html>`))
	})
	mux.HandleFunc("/notes.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("  plain notes \n"))
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	})
	mux.HandleFunc("/missing", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(FetcherConfig{UserAgent: "test-agent", RequestsPerSecond: -1})

	page, err := f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "Acme", page.Title)
	assert.Equal(t, "Welcome\nWe build rockets.\nAbout\nPrivacy", page.Text)
	assert.Equal(t, []string{srv.URL + "/about", srv.URL + "/privacy"}, page.Links)

	page, err = f.Fetch(context.Background(), srv.URL+"/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain notes", page.Text)

	_, err = f.Fetch(context.Background(), srv.URL+"/image.png")
	assert.ErrorIs(t, err, domain.ErrService)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, domain.ErrService)

	_, err = f.Fetch(context.Background(), "mailto:someone@example.com")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFetcher_TooManyRequestsOpensBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{RequestsPerSecond: -1})
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrService)
	assert.False(t, f.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, f.limiter.Wait(ctx))
}

func TestHeuristicSelector(t *testing.T) {
	links := []string{
		"https://acme.com/about-us",
		"https://acme.com/privacy",
		"https://acme.com/pricing",
		"https://acme.com/random",
		"https://acme.com/careers",
	}
	got, err := NewHeuristicSelector(2).Select(context.Background(), "https://acme.com", links)
	require.NoError(t, err)
	assert.Equal(t, []domain.Link{
		{Type: "about page", URL: "https://acme.com/about-us"},
		{Type: "pricing page", URL: "https://acme.com/pricing"},
	}, got)
}

type chatLLM struct {
	driven.LLMService
	answer string
	err    error
	calls  int
}

func (c *chatLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	c.calls++
	return c.answer, c.err
}

func TestLLMSelector(t *testing.T) {
	links := []string{"https://acme.com/about", "https://acme.com/jobs", "https://acme.com/terms"}

	t.Run("uses model answer", func(t *testing.T) {
		llm := &chatLLM{answer: "```json\n{\"links\":[{\"type\":\"about page\",\"url\":\"https://acme.com/about\"}," +
			"{\"type\":\"made up\",\"url\":\"https://evil.example/x\"}]}\n```"}
		got, err := NewLLMSelector(llm, 5).Select(context.Background(), "https://acme.com", links)
		require.NoError(t, err)
		assert.Equal(t, []domain.Link{{Type: "about page", URL: "https://acme.com/about"}}, got)
	})

	t.Run("falls back on error", func(t *testing.T) {
		llm := &chatLLM{err: errors.New("down")}
		got, err := NewLLMSelector(llm, 5).Select(context.Background(), "https://acme.com", links)
		require.NoError(t, err)
		assert.Equal(t, []domain.Link{
			{Type: "about page", URL: "https://acme.com/about"},
			{Type: "careers page", URL: "https://acme.com/jobs"},
		}, got)
	})

	t.Run("falls back on garbage", func(t *testing.T) {
		got, err := NewLLMSelector(&chatLLM{answer: "sorry"}, 5).Select(context.Background(), "u", links)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no links skips model", func(t *testing.T) {
		llm := &chatLLM{}
		got, err := NewLLMSelector(llm, 5).Select(context.Background(), "u", nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, llm.calls)
	})
}

func TestParseLinks_DefaultsTypeAndDedupes(t *testing.T) {
	allowed := []string{"https://a.com/x"}
	got, err := ParseLinks(`{"links":[{"url":"https://a.com/x"},{"type":"t","url":"https://a.com/x"}]}`, allowed)
	require.NoError(t, err)
	assert.Equal(t, []domain.Link{{Type: "linked page", URL: "https://a.com/x"}}, got)
}
