package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure WebsiteService implements the interface.
var _ driving.SourceProcessor = (*WebsiteService)(nil)

// DefaultMaxLinks caps how many linked pages are read per site.
const DefaultMaxLinks = 8

// WebsiteService reads a landing page plus its most relevant linked pages
// and converses over them.
type WebsiteService struct {
	processor
	fetcher  driven.PageFetcher
	selector driven.LinkSelector
	maxLinks int
}

// NewWebsiteService creates a website service. maxLinks <= 0 selects
// DefaultMaxLinks.
func NewWebsiteService(
	pipeline *RetrievalPipeline,
	summariser *Summariser,
	fetcher driven.PageFetcher,
	selector driven.LinkSelector,
	maxLinks int,
) *WebsiteService {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	return &WebsiteService{
		processor: processor{RetrievalPipeline: pipeline, summariser: summariser},
		fetcher:   fetcher,
		selector:  selector,
		maxLinks:  maxLinks,
	}
}

// Kind returns domain.SourceWebsite.
func (s *WebsiteService) Kind() domain.SourceKind {
	return domain.SourceWebsite
}

// Process crawls url, rebuilds the knowledge base and summarises the site.
func (s *WebsiteService) Process(ctx context.Context, url string) domain.ProcessResult {
	text, err := s.Details(ctx, url)
	if err != nil {
		return s.fail(s.Kind(), url, err)
	}
	return s.finish(ctx, s.Kind(), url, text)
}

// Details returns the landing page text followed by each relevant linked
// page under its link type. Linked pages that fail are skipped.
func (s *WebsiteService) Details(ctx context.Context, url string) (string, error) {
	landing, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Landing page:\n")
	b.WriteString(landing.Text)

	links := s.relevantLinks(ctx, landing)
	logger.Info("Found %d relevant links on %s", len(links), landing.URL)

	for _, link := range links {
		page, err := s.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			logger.Warn("skipping %s: %v", link.URL, err)
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(link.Type)
		b.WriteString("\n")
		b.WriteString(page.Text)
	}
	return b.String(), nil
}

func (s *WebsiteService) relevantLinks(ctx context.Context, landing *domain.Page) []domain.Link {
	if s.selector == nil || len(landing.Links) == 0 {
		return nil
	}
	links, err := s.selector.Select(ctx, landing.URL, landing.Links)
	if err != nil {
		logger.Warn("link selection failed, reading the landing page only: %v", err)
		return nil
	}
	if len(links) > s.maxLinks {
		links = links[:s.maxLinks]
	}
	return links
}
