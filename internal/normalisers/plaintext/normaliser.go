// Package plaintext provides a Normaliser for plain text files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// Normalise decodes the file as UTF-8. A leading byte order mark is
// dropped and invalid sequences are replaced rather than rejected.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrValidation)
	}

	content := bytes.TrimPrefix(raw.Content, utf8BOM)
	text := strings.ToValidUTF8(string(content), "�")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	return &driven.NormaliseResult{
		Title:  raw.BaseTitle(),
		Text:   text,
		Format: "text",
	}, nil
}
