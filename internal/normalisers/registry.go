package normalisers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/normalisers/docx"
	"github.com/custodia-labs/ragdesk/internal/normalisers/html"
	"github.com/custodia-labs/ragdesk/internal/normalisers/markdown"
	"github.com/custodia-labs/ragdesk/internal/normalisers/pdf"
	"github.com/custodia-labs/ragdesk/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions to normalisers. Later registrations for
// the same extension replace earlier ones.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(ns ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range ns {
		r.Register(n)
	}
	return r
}

// Default returns a registry with every built-in normaliser.
func Default() *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		pdf.New(),
	)
}

// Register adds n under each of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range n.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser for ext, matched case-insensitively. An
// unknown extension fails with domain.ErrUnsupportedFormat.
func (r *Registry) For(ext string) (driven.Normaliser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return n, nil
}

// Extensions lists every registered extension in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
