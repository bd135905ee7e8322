// Package markdown provides a Normaliser for Markdown files. Documents are
// parsed with goldmark and flattened to text block by block, so headings,
// paragraphs and list items keep their paragraph breaks for the chunker.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise renders the document to plain text. The first level-one
// heading becomes the title.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrValidation)
	}

	src := bytes.ReplaceAll(raw.Content, []byte("\r\n"), []byte("\n"))
	doc := n.md.Parser().Parse(text.NewReader(src))

	title := ""
	var blocks []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			blocks = append(blocks, s)
		}
		cur.Reset()
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := node.(type) {
		case *ast.Heading:
			if entering {
				flush()
				return ast.WalkContinue, nil
			}
			if title == "" && v.Level == 1 {
				title = strings.TrimSpace(cur.String())
			}
			flush()
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				flush()
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					cur.Write(seg.Value(src))
				}
				flush()
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				cur.Write(v.Segment.Value(src))
				if v.SoftLineBreak() || v.HardLineBreak() {
					cur.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				cur.Write(v.Value)
			}
		case *ast.Image:
			// Alt text adds little to retrieval.
			return ast.WalkSkipChildren, nil
		default:
			if !entering && node.Type() == ast.TypeBlock {
				flush()
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	if title == "" {
		title = raw.BaseTitle()
	}

	return &driven.NormaliseResult{
		Title:  title,
		Text:   strings.Join(blocks, "\n\n"),
		Format: "markdown",
	}, nil
}
