package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/prompting"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure the selectors implement the interface.
var (
	_ driven.LinkSelector     = (*LLMSelector)(nil)
	_ driven.LinkSelector     = (*HeuristicSelector)(nil)
	_ driven.PromptStoreAware = (*LLMSelector)(nil)
)

// DefaultMaxLinks caps how many links a selector returns.
const DefaultMaxLinks = 8

// DefaultLinkSelectPrompt is the system prompt for link classification.
const DefaultLinkSelectPrompt = `You are provided with a list of links found on a webpage.
You are able to decide which of the links would be most relevant to include in a brochure about the company,
such as links to an About page, or a Company page, or Careers/Jobs pages.
You should respond in JSON as in this example:
{
    "links": [
        {"type": "about page", "url": "https://full.url/goes/here/about"},
        {"type": "careers page", "url": "https://another.full.url/careers"}
    ]
}
Do not include Terms of Service, Privacy, login or email links.`

// maxPromptLinks bounds the link list sent to the model.
const maxPromptLinks = 200

// HeuristicSelector picks links whose path mentions a well-known section.
type HeuristicSelector struct {
	maxLinks int
}

// NewHeuristicSelector creates a keyword based selector.
func NewHeuristicSelector(maxLinks int) *HeuristicSelector {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	return &HeuristicSelector{maxLinks: maxLinks}
}

var keywordTypes = []struct {
	keyword string
	label   string
}{
	{"about", "about page"},
	{"company", "company page"},
	{"team", "team page"},
	{"product", "products page"},
	{"service", "services page"},
	{"docs", "documentation"},
	{"documentation", "documentation"},
	{"pricing", "pricing page"},
	{"blog", "blog"},
	{"news", "news page"},
	{"career", "careers page"},
	{"jobs", "careers page"},
	{"contact", "contact page"},
}

var excluded = []string{"privacy", "terms", "login", "signin", "sign-in", "signup", "cookie", "legal"}

// Select returns up to maxLinks labelled links, in page order.
func (h *HeuristicSelector) Select(_ context.Context, _ string, links []string) ([]domain.Link, error) {
	var out []domain.Link
	for _, link := range links {
		if len(out) == h.maxLinks {
			break
		}
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		path := strings.ToLower(u.Host + u.Path)
		if containsAny(path, excluded) {
			continue
		}
		for _, kt := range keywordTypes {
			if strings.Contains(path, kt.keyword) {
				out = append(out, domain.Link{Type: kt.label, URL: link})
				break
			}
		}
	}
	return out, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// LLMSelector asks the LLM to pick and label relevant links.
type LLMSelector struct {
	llm         driven.LLMService
	fallback    driven.LinkSelector
	promptStore driven.PromptStore
	maxLinks    int
}

// NewLLMSelector creates an LLM backed selector. A nil llm makes it
// behave as the heuristic selector.
func NewLLMSelector(llm driven.LLMService, maxLinks int) *LLMSelector {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	return &LLMSelector{
		llm:      llm,
		fallback: NewHeuristicSelector(maxLinks),
		maxLinks: maxLinks,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *LLMSelector) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

type linksResponse struct {
	Links []domain.Link `json:"links"`
}

// Select classifies links with the LLM. Only URLs present in links are
// accepted from the answer.
func (s *LLMSelector) Select(ctx context.Context, pageURL string, links []string) ([]domain.Link, error) {
	if len(links) == 0 {
		return nil, nil
	}
	if s.llm == nil {
		return s.fallback.Select(ctx, pageURL, links)
	}

	candidates := links
	if len(candidates) > maxPromptLinks {
		candidates = candidates[:maxPromptLinks]
	}
	user := fmt.Sprintf("Here is the list of links on the website of %s - please decide which of these "+
		"are relevant web links for a brochure about the company, respond with the full https URL in JSON format.\n"+
		"Links:\n%s", pageURL, strings.Join(candidates, "\n"))

	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: prompting.Load(s.promptStore, driven.PromptLinkSelect, DefaultLinkSelectPrompt)},
		{Role: "user", Content: user},
	}, driven.ChatOptions{Temperature: 0, MaxTokens: 1000})
	if err != nil {
		logger.Warn("link selection via LLM failed, using keyword match: %v", err)
		return s.fallback.Select(ctx, pageURL, links)
	}

	selected, err := ParseLinks(answer, links)
	if err != nil {
		logger.Warn("link selection answer unusable, using keyword match: %v", err)
		return s.fallback.Select(ctx, pageURL, links)
	}
	if len(selected) > s.maxLinks {
		selected = selected[:s.maxLinks]
	}
	return selected, nil
}

// ParseLinks decodes a {"links":[...]} answer, tolerating surrounding
// prose or code fences. Entries whose URL is not in allowed, duplicates,
// and entries without a URL are dropped.
func ParseLinks(answer string, allowed []string) ([]domain.Link, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in answer", domain.ErrService)
	}

	var resp linksResponse
	if err := json.Unmarshal([]byte(answer[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("%w: decode links: %w", domain.ErrService, err)
	}

	ok := make(map[string]bool, len(allowed))
	for _, l := range allowed {
		ok[l] = true
	}
	seen := map[string]bool{}
	var out []domain.Link
	for _, l := range resp.Links {
		l.URL = strings.TrimSpace(l.URL)
		if l.URL == "" || !ok[l.URL] || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		if strings.TrimSpace(l.Type) == "" {
			l.Type = "linked page"
		}
		out = append(out, l)
	}
	return out, nil
}
