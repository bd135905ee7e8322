// Package chunker splits text into overlapping windows for retrieval.
//
// Windows prefer to end on the largest natural boundary that fits:
// paragraph, then line, then sentence, then word, and only cut mid-word
// when nothing else is available. Each window after the first starts
// exactly overlap runes before the previous one ended, so dropping the
// first overlap runes of every chunk after the first and concatenating
// reproduces the input.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Splitter = (*Chunker)(nil)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// separators in order of preference.
var separators = [][][]rune{
	{[]rune("\n\n")},
	{[]rune("\n")},
	{[]rune(". "), []rune("! "), []rune("? ")},
	{[]rune(" ")},
}

// Chunker splits text into overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker. It fails with domain.ErrValidation unless
// overlap < chunk size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.Profile().Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromProfile creates a chunker for a chunk profile.
func FromProfile(p domain.ChunkProfile) (*Chunker, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{chunkSize: p.MaxSize, overlap: p.Overlap}, nil
}

// Profile returns the chunker's size and overlap.
func (c *Chunker) Profile() domain.ChunkProfile {
	return domain.ChunkProfile{MaxSize: c.chunkSize, Overlap: c.overlap}
}

// Split cuts text into chunks with fresh IDs. Empty or whitespace-only
// text produces no chunks.
func (c *Chunker) Split(text string) []domain.Chunk {
	runes := []rune(text)
	spans := c.spans(runes)
	if len(spans) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(spans))
	for _, s := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:     uuid.New().String(),
			Text:   string(runes[s.Start:s.End]),
			Offset: s,
		})
	}
	return chunks
}

// SplitText splits text into chunk strings of at most maxSize runes with
// the given overlap.
func SplitText(text string, maxSize, overlap int) ([]string, error) {
	c, err := FromProfile(domain.ChunkProfile{MaxSize: maxSize, Overlap: overlap})
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	runes := []rune(text)
	spans := c.spans(runes)
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, string(runes[s.Start:s.End]))
	}
	return out, nil
}

func (c *Chunker) spans(runes []rune) []domain.Span {
	if strings.TrimSpace(string(runes)) == "" {
		return nil
	}

	n := len(runes)
	var spans []domain.Span
	start := 0
	for {
		limit := start + c.chunkSize
		if limit >= n {
			spans = append(spans, domain.Span{Start: start, End: n})
			return spans
		}

		end := c.cut(runes, start, limit)
		spans = append(spans, domain.Span{Start: start, End: end})
		start = end - c.overlap
	}
}

// cut picks the end of the window starting at start. The result is always
// greater than start+overlap so the next window makes progress.
func (c *Chunker) cut(runes []rune, start, limit int) int {
	floor := start + c.overlap
	for _, group := range separators {
		best := -1
		for _, sep := range group {
			if pos := lastBoundary(runes, floor, limit, sep); pos > best {
				best = pos
			}
		}
		if best > 0 {
			return best
		}
	}
	return limit
}

// lastBoundary returns the position just after the last occurrence of sep
// that ends in (floor, limit], or -1.
func lastBoundary(runes []rune, floor, limit int, sep []rune) int {
	for end := limit; end > floor; end-- {
		begin := end - len(sep)
		if begin < 0 {
			return -1
		}
		if hasPrefixAt(runes, begin, sep) {
			return end
		}
	}
	return -1
}

func hasPrefixAt(runes []rune, at int, sep []rune) bool {
	for i, r := range sep {
		if runes[at+i] != r {
			return false
		}
	}
	return true
}
