// Package memory provides an exact, in-process vector index.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/scoring"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a brute-force cosine index. At the sizes one document or
// transcript produces an exact scan is fast enough and fully deterministic.
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries []domain.EmbeddedChunk
	ids     map[string]struct{}
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{
		ids: make(map[string]struct{}),
	}
}

// Add inserts embedded chunks.
func (x *Index) Add(_ context.Context, chunks []domain.EmbeddedChunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	dim, err := scoring.CheckDimensions(x.dim, chunks)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if _, dup := x.ids[c.Chunk.ID]; dup {
			return fmt.Errorf("%w: duplicate chunk id %s", domain.ErrValidation, c.Chunk.ID)
		}
	}

	x.dim = dim
	for _, c := range chunks {
		vec := make([]float32, len(c.Vector))
		copy(vec, c.Vector)
		x.entries = append(x.entries, domain.EmbeddedChunk{Chunk: c.Chunk, Vector: vec})
		x.ids[c.Chunk.ID] = struct{}{}
	}
	return nil
}

// Search returns the k most similar chunks.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) > 0 && len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}
	return scoring.TopK(query, x.entries, k), nil
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Close drops all entries.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.ids = make(map[string]struct{})
	x.dim = 0
	return nil
}

// Factory creates in-memory indexes.
type Factory struct{}

// Ensure Factory implements the interface.
var _ driven.IndexFactory = Factory{}

// New creates an empty index. The name is unused.
func (Factory) New(_ context.Context, _ string) (driven.VectorIndex, error) {
	return New(), nil
}
