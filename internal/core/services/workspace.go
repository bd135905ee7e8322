package services

import (
	"errors"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ensure Workspace implements the interface.
var _ driving.Workspace = (*Workspace)(nil)

// Workspace holds one independent SourceProcessor per source kind.
type Workspace struct {
	processors map[domain.SourceKind]driving.SourceProcessor
}

// NewWorkspace creates a workspace from processors, keyed by their Kind.
func NewWorkspace(processors ...driving.SourceProcessor) *Workspace {
	w := &Workspace{processors: make(map[domain.SourceKind]driving.SourceProcessor, len(processors))}
	for _, p := range processors {
		w.processors[p.Kind()] = p
	}
	return w
}

// Get returns the processor for kind, or domain.ErrUnsupportedType.
func (w *Workspace) Get(kind domain.SourceKind) (driving.SourceProcessor, error) {
	p, ok := w.processors[kind]
	if !ok {
		return nil, domain.NewUserError(domain.ErrUnsupportedType, "Unsupported source kind: "+kind.String())
	}
	return p, nil
}

// Kinds lists the available kinds in display order.
func (w *Workspace) Kinds() []domain.SourceKind {
	var kinds []domain.SourceKind
	for _, k := range domain.AllSourceKinds() {
		if _, ok := w.processors[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Close releases every processor's knowledge base.
func (w *Workspace) Close() error {
	var errs []error
	for _, p := range w.processors {
		if c, ok := p.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
