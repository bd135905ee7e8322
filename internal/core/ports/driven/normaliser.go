package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Normaliser extracts plain text from an uploaded document.
// Each normaliser handles specific file extensions (e.g., ".pdf", ".docx").
type Normaliser interface {
	// SupportedExtensions returns the lower-cased extensions handled,
	// including the leading dot.
	SupportedExtensions() []string

	// Normalise extracts the document text.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Title is the document title, or a name derived from the file name.
	Title string

	// Text is the extracted plain text. It may be blank; callers decide
	// whether blank text is an error.
	Text string

	// Format names the detected format (e.g., "pdf").
	Format string
}

// NormaliserRegistry picks the normaliser for a file extension.
type NormaliserRegistry interface {
	// For returns the normaliser for ext (case-insensitive, with the dot)
	// or an error wrapping domain.ErrUnsupportedFormat.
	For(ext string) (Normaliser, error)

	// Extensions lists every supported extension.
	Extensions() []string
}
