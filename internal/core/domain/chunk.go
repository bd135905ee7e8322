package domain

import "fmt"

// Span is a half-open rune range [Start, End) within a source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Chunk is a bounded-length window of a larger text, used as the unit of
// retrieval. Chunks are immutable once created.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the chunk content.
	Text string

	// Offset locates the chunk in the text it was cut from.
	Offset Span
}

// EmbeddedChunk pairs a chunk with its embedding vector.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float32
}

// ScoredChunk is a single similarity search hit.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity between the query and the chunk vector.
	Score float64
}

// ChunkProfile controls how text is windowed before indexing.
type ChunkProfile struct {
	// MaxSize is the maximum chunk length in runes.
	MaxSize int

	// Overlap is how many runes each chunk shares with its predecessor.
	Overlap int
}

// Chunk profiles used by the source adapters.
var (
	// DocumentProfile is used for website and document text.
	DocumentProfile = ChunkProfile{MaxSize: 1000, Overlap: 200}

	// TranscriptProfile is used for video transcripts, which are dense speech.
	TranscriptProfile = ChunkProfile{MaxSize: 500, Overlap: 100}
)

// Validate checks 0 <= Overlap < MaxSize.
func (p ChunkProfile) Validate() error {
	if p.MaxSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrValidation, p.MaxSize)
	}
	if p.Overlap < 0 || p.Overlap >= p.MaxSize {
		return fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrValidation, p.Overlap, p.MaxSize)
	}
	return nil
}
