package driven

import "context"

// VectorIndex provides similarity search over passage embeddings.
// An index is scoped to exactly one document in one session and is
// rebuilt fresh for each new upload. Nothing persists across sessions.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID at the given ordinal.
	Add(ctx context.Context, chunkID string, position int, embedding []float32) error

	// Search finds the k nearest neighbours to the query vector,
	// ranked by descending similarity. Ties are broken by ascending
	// passage ordinal so results are deterministic.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Position is the matched chunk's ordinal within the document.
	Position int

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
