package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// DocumentLoader extracts normalised text from an uploaded file.
// Each loader handles specific MIME types (e.g., PDF, plain text).
type DocumentLoader interface {
	// SupportedMIMETypes returns the MIME types this loader handles.
	SupportedMIMETypes() []string

	// Format returns the format tag recorded on loaded documents
	// (e.g., "text", "pdf").
	Format() string

	// Load extracts text from the raw upload and returns a Document.
	// PDF loaders concatenate page text in page order; text loaders
	// read the raw bytes as UTF-8.
	Load(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// LoaderRegistry selects the appropriate loader for an upload.
type LoaderRegistry interface {
	// Register adds a loader to the registry.
	Register(loader DocumentLoader)

	// Select returns the loader for the upload's MIME type or file
	// extension. Returns domain.ErrUnsupportedFormat if none matches.
	Select(raw *domain.RawDocument) (DocumentLoader, error)
}
