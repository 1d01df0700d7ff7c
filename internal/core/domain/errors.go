package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates the uploaded file contained no text.
	// The user should be prompted to upload a different file.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrInvalidChunking indicates a chunker misconfiguration,
	// such as an overlap that is not smaller than the chunk size.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrIndexingFailed indicates document indexing did not complete.
	// No partial index is ever published; the session returns to Empty.
	ErrIndexingFailed = errors.New("indexing failed")

	// ErrIndexUnavailable indicates a question arrived before any
	// document was indexed in the session.
	ErrIndexUnavailable = errors.New("no document indexed")

	// ErrGeneration indicates the language model errored or returned
	// empty output. Generation is not retried.
	ErrGeneration = errors.New("generation failed")

	// ErrUnsupportedFormat indicates an unknown upload format.
	// Only plain text and PDF uploads are accepted.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrFileTooLarge indicates the upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionBusy indicates an ingestion or answer is already in
	// flight for the session. At most one operation runs at a time.
	ErrSessionBusy = errors.New("session busy")

	// ErrSessionNotFound indicates a requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
