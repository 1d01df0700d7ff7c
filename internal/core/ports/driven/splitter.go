package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// Splitter splits document content into retrievable passages.
type Splitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split produces the ordered passage sequence for a document.
	// Passages cover the document content without omissions; consecutive
	// passages overlap by the configured amount where the text allows.
	Split(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
