package domain

import "time"

// RawDocument represents opaque bytes supplied by the user before loading.
// It is the upload's representation before a DocumentLoader extracts text.
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// Name is the human-readable file name.
	Name string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Document represents a loaded document ready for chunking.
// It is the canonical representation after text extraction.
// Documents are immutable once loaded and live only for the
// duration of the session that owns them.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the human-readable file name.
	Name string

	// URI is the original location (file path).
	URI string

	// Format is the source format tag (e.g., "text", "pdf").
	Format string

	// Content is the full text content after extraction.
	// This is the complete document text before chunking.
	Content string

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// Chunk represents a retrievable passage within a document.
// Documents are split into chunks so answers can be grounded
// in individual passages rather than the whole text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// RetrievedPassage is a chunk returned by similarity search,
// together with its relevance to the query.
type RetrievedPassage struct {
	// Chunk is the matched passage.
	Chunk Chunk

	// Score is the cosine similarity to the query embedding.
	Score float64

	// DocumentName is the owning document's name, for attribution.
	DocumentName string
}
