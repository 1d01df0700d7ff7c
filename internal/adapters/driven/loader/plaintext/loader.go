// Package plaintext provides a document loader for plain text files.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles plain text uploads.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
	}
}

// Format returns the format tag recorded on loaded documents.
func (l *Loader) Format() string {
	return "text"
}

// Load reads the raw bytes as UTF-8 text.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) {
		return nil, fmt.Errorf("%w: %q is not valid UTF-8 text", domain.ErrUnsupportedFormat, raw.Name)
	}

	content := string(raw.Content)
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyDocument
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		Name:      raw.Name,
		URI:       raw.URI,
		Format:    l.Format(),
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}
