package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers nearest-neighbour queries.
//
// All vectors added to one index must share a dimension; a mismatch fails
// with domain.ErrDimensionMismatch.
type VectorIndex interface {
	// Add inserts embedded chunks. Chunk IDs must be unique.
	Add(ctx context.Context, chunks []domain.EmbeddedChunk) error

	// Search returns up to k chunks ordered by descending cosine similarity.
	// k larger than Len is clamped; k <= 0 returns no results. Ties keep
	// insertion order so results are deterministic.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Close releases resources.
	Close() error
}

// IndexFactory creates empty vector indexes. Each processed source gets
// its own index, identified by name.
type IndexFactory interface {
	New(ctx context.Context, name string) (VectorIndex, error)
}
