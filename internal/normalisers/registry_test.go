package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

type stubNormaliser struct {
	exts []string
	tag  string
}

func (s stubNormaliser) SupportedExtensions() []string { return s.exts }

func (s stubNormaliser) Normalise(context.Context, *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Format: s.tag}, nil
}

func TestDefault_Extensions(t *testing.T) {
	assert.Equal(t,
		[]string{".docx", ".htm", ".html", ".markdown", ".md", ".pdf", ".text", ".txt"},
		Default().Extensions())
}

func TestFor_CaseInsensitive(t *testing.T) {
	r := Default()
	for _, ext := range []string{".PDF", ".Docx", ".txt", ".MD"} {
		n, err := r.For(ext)
		require.NoError(t, err, ext)
		assert.NotNil(t, n)
	}
}

func TestFor_Unsupported(t *testing.T) {
	_, err := Default().For(".xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_Replaces(t *testing.T) {
	r := NewRegistry(stubNormaliser{exts: []string{".txt"}, tag: "a"})
	r.Register(stubNormaliser{exts: []string{".TXT"}, tag: "b"})

	n, err := r.For(".txt")
	require.NoError(t, err)
	res, err := n.Normalise(context.Background(), &domain.RawDocument{})
	require.NoError(t, err)
	assert.Equal(t, "b", res.Format)
}
