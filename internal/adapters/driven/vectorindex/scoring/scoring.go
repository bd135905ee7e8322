// Package scoring holds the similarity maths shared by the exact-scan
// vector index backends.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b, or 0 when either
// vector has zero magnitude. Vectors must have equal length.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ClampK bounds k to [0, n].
func ClampK(k, n int) int {
	if k <= 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}

// CheckDimensions verifies every chunk has dimension dim. A dim of 0
// adopts the first chunk's dimension. It returns the dimension in force.
func CheckDimensions(dim int, chunks []domain.EmbeddedChunk) (int, error) {
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return dim, fmt.Errorf("%w: chunk %s has an empty vector", domain.ErrDimensionMismatch, c.Chunk.ID)
		}
		if dim == 0 {
			dim = len(c.Vector)
			continue
		}
		if len(c.Vector) != dim {
			return dim, fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, c.Chunk.ID, len(c.Vector), dim)
		}
	}
	return dim, nil
}

// TopK scores every entry against query and returns the best k, highest
// first. Equal scores keep the entries' original order.
func TopK(query []float32, entries []domain.EmbeddedChunk, k int) []domain.ScoredChunk {
	k = ClampK(k, len(entries))
	if k == 0 {
		return nil
	}

	scored := make([]domain.ScoredChunk, len(entries))
	for i, e := range entries {
		scored[i] = domain.ScoredChunk{Chunk: e.Chunk, Score: Cosine(query, e.Vector)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored[:k]
}
