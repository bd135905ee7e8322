// Package chromem provides a vector index backed by an in-process
// chromem-go database, one collection per processed source.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/scoring"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Metadata keys stored alongside each document.
const (
	metaSeq   = "seq"
	metaStart = "start"
	metaEnd   = "end"
)

// errNoEmbeddingFunc guards against chromem computing embeddings itself.
// Every document is added with a precomputed vector.
var errNoEmbeddingFunc = errors.New("chromem: embeddings must be precomputed")

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index wraps a single chromem collection.
type Index struct {
	mu   sync.RWMutex
	db   *chromemgo.DB
	name string
	coll *chromemgo.Collection
	dim  int
	seq  int
	ids  map[string]struct{}
}

// Add inserts embedded chunks as chromem documents.
func (x *Index) Add(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.coll == nil {
		return fmt.Errorf("chromem: collection %s is closed", x.name)
	}

	dim, err := scoring.CheckDimensions(x.dim, chunks)
	if err != nil {
		return err
	}

	docs := make([]chromemgo.Document, 0, len(chunks))
	for i, c := range chunks {
		if _, dup := x.ids[c.Chunk.ID]; dup {
			return fmt.Errorf("%w: duplicate chunk id %s", domain.ErrValidation, c.Chunk.ID)
		}
		vec := make([]float32, len(c.Vector))
		copy(vec, c.Vector)
		docs = append(docs, chromemgo.Document{
			ID:      c.Chunk.ID,
			Content: c.Chunk.Text,
			Metadata: map[string]string{
				metaSeq:   strconv.Itoa(x.seq + i),
				metaStart: strconv.Itoa(c.Chunk.Offset.Start),
				metaEnd:   strconv.Itoa(c.Chunk.Offset.End),
			},
			Embedding: vec,
		})
	}

	if err := x.coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents to %s: %w", x.name, err)
	}

	x.dim = dim
	x.seq += len(chunks)
	for _, c := range chunks {
		x.ids[c.Chunk.ID] = struct{}{}
	}
	return nil
}

// Search queries the collection with a precomputed embedding. chromem
// rejects n larger than the collection, so k is clamped first.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.coll == nil {
		return nil, fmt.Errorf("chromem: collection %s is closed", x.name)
	}

	n := scoring.ClampK(k, x.coll.Count())
	if n == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}

	results, err := x.coll.QueryEmbedding(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", x.name, err)
	}

	// chromem scores in parallel, so equal similarities come back in no
	// particular order. Break ties by insertion sequence.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return metaInt(results[i].Metadata, metaSeq) < metaInt(results[j].Metadata, metaSeq)
	})

	hits := make([]domain.ScoredChunk, 0, len(results))
	for _, r := range results {
		hits = append(hits, domain.ScoredChunk{
			Chunk: domain.Chunk{
				ID:   r.ID,
				Text: r.Content,
				Offset: domain.Span{
					Start: metaInt(r.Metadata, metaStart),
					End:   metaInt(r.Metadata, metaEnd),
				},
			},
			Score: float64(r.Similarity),
		})
	}
	return hits, nil
}

// Len returns the number of documents in the collection.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.coll == nil {
		return 0
	}
	return x.coll.Count()
}

// Close deletes the collection from the database.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.coll == nil {
		return nil
	}
	x.coll = nil
	if err := x.db.DeleteCollection(x.name); err != nil {
		return fmt.Errorf("deleting collection %s: %w", x.name, err)
	}
	return nil
}

func metaInt(meta map[string]string, key string) int {
	v, err := strconv.Atoi(meta[key])
	if err != nil {
		return 0
	}
	return v
}

// Factory creates collections in one shared chromem database.
type Factory struct {
	db *chromemgo.DB
}

// Ensure Factory implements the interface.
var _ driven.IndexFactory = (*Factory)(nil)

// NewFactory creates a factory with a fresh in-memory database.
func NewFactory() *Factory {
	return &Factory{db: chromemgo.NewDB()}
}

// New creates an empty collection. Each call gets a unique collection so a
// rebuild never disturbs the index still serving questions.
func (f *Factory) New(_ context.Context, name string) (driven.VectorIndex, error) {
	collName := name + "-" + uuid.NewString()
	coll, err := f.db.CreateCollection(collName, map[string]string{"source": name}, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", collName, err)
	}
	return &Index{
		db:   f.db,
		name: collName,
		coll: coll,
		ids:  make(map[string]struct{}),
	}, nil
}

// Collections returns how many collections are live.
func (f *Factory) Collections() int {
	return len(f.db.ListCollections())
}

func refuseEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}
