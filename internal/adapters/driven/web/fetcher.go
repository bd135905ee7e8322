package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
	"github.com/custodia-labs/ragdesk/internal/normalisers/html"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Default fetcher settings.
const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "ragdesk/0.1"
	DefaultMaxBytes  = 5 << 20
)

// FetcherConfig holds configuration for Fetcher.
type FetcherConfig struct {
	// Timeout bounds one request (default: 20s).
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// RequestsPerSecond throttles requests (default: 2).
	RequestsPerSecond float64

	// MaxBytes caps how much of a body is read (default: 5 MiB).
	MaxBytes int64

	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// Fetcher downloads HTML pages and reduces them to text and links.
type Fetcher struct {
	client    *http.Client
	limiter   *RateLimiter
	userAgent string
	maxBytes  int64
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		client:    client,
		limiter:   NewRateLimiter(cfg.RequestsPerSecond, DefaultBurst),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
	}
}

// ParseURL accepts absolute http(s) URLs only. A missing scheme is
// completed with https://.
func ParseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty URL", domain.ErrValidation)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL %q: %w", domain.ErrValidation, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL %q", domain.ErrValidation, raw)
	}
	return u, nil
}

// Fetch downloads rawURL and extracts its title, text and links.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.Page, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrValidation, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8")

	logger.Debug("GET %s", u)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrService, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.limiter.RecordTooManyRequests(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrService, u, resp.StatusCode)
	}

	mediaType := ""
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ = mime.ParseMediaType(ct)
	}
	if mediaType != "" && !strings.HasPrefix(mediaType, "text/") && mediaType != "application/xhtml+xml" {
		return nil, fmt.Errorf("%w: fetch %s: unsupported content type %s", domain.ErrService, u, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrService, u, err)
	}

	final := resp.Request.URL
	content := string(body)
	if mediaType == "text/plain" {
		return &domain.Page{URL: final.String(), Text: strings.TrimSpace(content)}, nil
	}
	return &domain.Page{
		URL:   final.String(),
		Title: html.ExtractTitle(content),
		Text:  html.ExtractText(content),
		Links: html.ExtractLinks(content, final),
	}, nil
}
