// Package memory provides an in-memory vector index with brute-force
// cosine similarity search. An index holds one document's passages and
// lives only as long as its session; nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one stored vector with its precomputed norm.
type entry struct {
	chunkID   string
	position  int
	embedding []float32
	norm      float64
}

// Index is a brute-force cosine similarity index. Exact search over a
// single document's passages is fast enough that approximate methods
// would only add moving parts.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	dims    int
	closed  bool
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Add inserts a vector for the given chunk ID at the given ordinal.
// All vectors must share one dimensionality; the first insert fixes it.
func (idx *Index) Add(ctx context.Context, chunkID string, position int, embedding []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(embedding) == 0 {
		return fmt.Errorf("add %q: empty embedding", chunkID)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return fmt.Errorf("add %q: index closed", chunkID)
	}
	if idx.dims == 0 {
		idx.dims = len(embedding)
	} else if len(embedding) != idx.dims {
		return fmt.Errorf("add %q: dimension mismatch: got %d, index has %d", chunkID, len(embedding), idx.dims)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	idx.entries = append(idx.entries, entry{
		chunkID:   chunkID,
		position:  position,
		embedding: vec,
		norm:      norm(vec),
	})
	return nil
}

// Search finds the k nearest neighbours to the query vector, ranked by
// descending similarity with ties broken by ascending passage ordinal.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, fmt.Errorf("search: index closed")
	}
	if len(idx.entries) == 0 {
		return nil, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("search: dimension mismatch: got %d, index has %d", len(query), idx.dims)
	}

	queryNorm := norm(query)
	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		hits = append(hits, driven.VectorHit{
			ChunkID:    e.chunkID,
			Position:   e.position,
			Similarity: cosine(query, queryNorm, e.embedding, e.norm),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Position < hits[j].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases the stored vectors. Further use returns errors.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
	idx.closed = true
	return nil
}

// cosine computes cosine similarity given precomputed norms.
// Zero vectors score zero rather than dividing by zero.
func cosine(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

// norm computes the Euclidean norm.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
