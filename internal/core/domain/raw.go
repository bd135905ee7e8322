package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument is an uploaded file before text extraction.
type RawDocument struct {
	// URI is the original location, usually a file path.
	URI string

	// Extension is the lower-cased file extension including the dot.
	Extension string

	// Content is the raw bytes.
	Content []byte
}

// BaseTitle derives a readable title from the file name in URI.
func (r *RawDocument) BaseTitle() string {
	name := filepath.Base(r.URI)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// Page is a fetched web page reduced to readable text.
type Page struct {
	// URL is the final URL the page was fetched from.
	URL string

	// Title is the page <title>, if any.
	Title string

	// Text is the readable page text with markup removed.
	Text string

	// Links are absolute outbound URLs discovered on the page.
	Links []string
}

// Link is a discovered outbound link labelled with what it points at,
// for example "about page" or "documentation".
type Link struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
