// Package pdf provides a Normaliser for PDF documents using a pure Go
// PDF reader, so no external tools are needed.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Normalise extracts the text of every page, one page per line block.
// Pages whose text cannot be decoded are skipped; a scanned PDF therefore
// yields blank text rather than an error.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (res *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrValidation)
	}

	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: unreadable pdf: %v", domain.ErrValidation, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable pdf: %w", domain.ErrValidation, err)
	}

	var pages []string
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("pdf: skipping page %d of %s: %v", i, raw.URI, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return &driven.NormaliseResult{
		Title:  raw.BaseTitle(),
		Text:   strings.Join(pages, "\n"),
		Format: "pdf",
	}, nil
}
