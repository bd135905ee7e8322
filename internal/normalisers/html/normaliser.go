// Package html provides a Normaliser for HTML documents and the text and
// link extraction helpers shared with the website fetcher.
package html

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

// Normalise strips markup and returns the readable text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrValidation)
	}

	content := string(raw.Content)
	title := ExtractTitle(content)
	if title == "" {
		title = raw.BaseTitle()
	}

	return &driven.NormaliseResult{
		Title:  title,
		Text:   ExtractText(content),
		Format: "html",
	}, nil
}

type rule struct {
	re   *regexp.Regexp
	with string
}

// Applied in order. Invisible elements go first, then block boundaries
// become newlines, then remaining tags are dropped.
var textRules = []rule{
	{regexp.MustCompile(`(?is)<(script|style|noscript|head|svg|template|iframe)\b[^>]*>.*?</(script|style|noscript|head|svg|template|iframe)>`), ""},
	{regexp.MustCompile(`(?s)<!--.*?-->`), ""},
	{regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|header|footer|nav|main|aside)\b[^>]*>`), "\n"},
	{regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|header|footer|nav|main|aside)>`), "\n"},
	{regexp.MustCompile(`(?i)<(br|hr)\s*/?>`), "\n"},
	{regexp.MustCompile(`(?i)</t[dh]>`), " "},
	{regexp.MustCompile(`<[^>]+>`), ""},
}

var (
	titleTag    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	anchorHref  = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
	multiSpaces = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
)

// ExtractTitle returns the decoded <title>, or "" when there is none.
func ExtractTitle(content string) string {
	m := titleTag.FindStringSubmatch(content)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// ExtractText reduces an HTML document to its visible text, one block per
// line, with entities decoded and whitespace collapsed.
func ExtractText(content string) string {
	for _, r := range textRules {
		content = r.re.ReplaceAllString(content, r.with)
	}
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// ExtractLinks returns the absolute http(s) targets of all anchors,
// resolved against base, without fragments, deduplicated in page order.
// Links back to base itself are omitted.
func ExtractLinks(content string, base *url.URL) []string {
	seen := map[string]bool{}
	if base != nil {
		self := *base
		self.Fragment = ""
		seen[self.String()] = true
	}

	var links []string
	for _, m := range anchorHref.FindAllStringSubmatch(content, -1) {
		href := strings.TrimSpace(html.UnescapeString(m[1] + m[2] + m[3]))
		if href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		u.Fragment = ""
		s := u.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		links = append(links, s)
	}
	return links
}
