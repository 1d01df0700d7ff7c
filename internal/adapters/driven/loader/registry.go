// Package loader provides the loader registry that routes uploads to
// the format-specific document loaders.
package loader

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry maps MIME types to document loaders.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string]driven.DocumentLoader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string]driven.DocumentLoader),
	}
}

// Register adds a loader. Later registrations win on MIME collisions.
func (r *Registry) Register(l driven.DocumentLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mt := range l.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mt)] = l
	}
}

// Select returns the loader for the upload's MIME type, falling back
// to the file extension when the MIME type is absent or unknown.
func (r *Registry) Select(raw *domain.RawDocument) (driven.DocumentLoader, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if mt := normaliseMIME(raw.MIMEType); mt != "" {
		if l, ok := r.byMIME[mt]; ok {
			return l, nil
		}
	}

	if ext := filepath.Ext(raw.Name); ext != "" {
		if mt := normaliseMIME(mime.TypeByExtension(ext)); mt != "" {
			if l, ok := r.byMIME[mt]; ok {
				return l, nil
			}
		}
		// mime.TypeByExtension misses common cases on minimal systems.
		if l, ok := r.byMIME[extFallback(ext)]; ok {
			return l, nil
		}
	}

	return nil, fmt.Errorf("%w: %q (%s)", domain.ErrUnsupportedFormat, raw.Name, raw.MIMEType)
}

// normaliseMIME strips parameters like charset and lowercases the type.
func normaliseMIME(mt string) string {
	mt = strings.TrimSpace(mt)
	if mt == "" {
		return ""
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// extFallback maps well-known extensions to MIME types.
func extFallback(ext string) string {
	switch strings.ToLower(ext) {
	case ".txt", ".text", ".log":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}
