// Package pdf provides a document loader for PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts text from PDF uploads.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Format returns the format tag recorded on loaded documents.
func (l *Loader) Format() string {
	return "pdf"
}

// Load extracts plain text from the PDF, concatenating page text in
// page order. Scanned PDFs without a text layer come out empty and are
// rejected as empty documents.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (doc *domain.Document, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: parse pdf %q: %v", domain.ErrUnsupportedFormat, raw.Name, r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse pdf %q: %v", domain.ErrUnsupportedFormat, raw.Name, err)
	}

	text, err := rdr.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text from %q: %w", raw.Name, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, text); err != nil {
		return nil, fmt.Errorf("read pdf text from %q: %w", raw.Name, err)
	}

	content := buf.String()
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: no text layer in %q", domain.ErrEmptyDocument, raw.Name)
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
