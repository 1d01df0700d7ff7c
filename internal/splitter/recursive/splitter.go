// Package recursive provides the recursive character text splitter.
//
// Text is split on the coarsest separator first (paragraph breaks),
// falling back to finer separators only for segments that still exceed
// the chunk size. Segments are then merged forward into windows of at
// most chunkSize characters, each window starting with the tail of the
// previous one so context survives chunk boundaries.
package recursive

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// DefaultSeparators is the separator priority list, coarsest first.
var DefaultSeparators = []string{"\n\n", "\n", ".", " "}

// Splitter splits document content into overlapping passages.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum passage length in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// WithSeparators sets the separator priority list, coarsest first.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a splitter with the given options.
// Returns domain.ErrInvalidChunking when the overlap is negative or
// not smaller than the chunk size.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize:  domain.DefaultChunkSize,
		overlap:    domain.DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, domain.ErrInvalidChunking
	}
	if s.overlap < 0 || s.overlap >= s.chunkSize {
		return nil, domain.ErrInvalidChunking
	}

	return s, nil
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return "recursive"
}

// Split produces the ordered passage sequence for a document.
// Returns domain.ErrEmptyDocument when the content is blank.
func (s *Splitter) Split(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, domain.ErrEmptyDocument
	}

	segments := s.segment(doc.Content, s.separators)
	texts := s.merge(segments)

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
		})
	}

	return chunks, nil
}

// segment recursively splits text into pieces no longer than chunkSize,
// trying the coarsest separator first. A piece that exceeds chunkSize
// after the finest separator is exhausted is returned whole: an atomic
// token longer than the chunk size is emitted as-is, not truncated.
func (s *Splitter) segment(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return []string{text}
	}

	sep := separators[0]
	finer := separators[1:]

	// SplitAfter keeps the separator attached to the preceding piece,
	// so concatenating all segments reconstructs the text exactly.
	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		return s.segment(text, finer)
	}

	var segments []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= s.chunkSize {
			segments = append(segments, part)
			continue
		}
		segments = append(segments, s.segment(part, finer)...)
	}

	return segments
}

// merge packs segments into windows of at most chunkSize characters.
// When a window fills, it is emitted and the next window starts with
// the last overlap characters of the emitted text. The carried counter
// tracks how much of the window is overlap from the previous chunk, so
// a window holding only carried text is never emitted as a chunk of
// its own.
func (s *Splitter) merge(segments []string) []string {
	var chunks []string
	var window strings.Builder
	carried := 0

	for _, seg := range segments {
		if window.Len() > carried && window.Len()+len(seg) > s.chunkSize {
			emitted := window.String()
			chunks = append(chunks, emitted)
			window.Reset()
			carried = 0

			// Seed the next window with the overlap tail, shrunk so the
			// window stays within chunkSize once seg is added. Oversize
			// atomic segments get no seed and are emitted whole.
			if s.overlap > 0 && len(seg) < s.chunkSize {
				n := s.overlap
				if room := s.chunkSize - len(seg); n > room {
					n = room
				}
				if n > len(emitted) {
					n = len(emitted)
				}
				window.WriteString(emitted[len(emitted)-n:])
				carried = n
			}
		}
		window.WriteString(seg)
	}

	if window.Len() > carried {
		chunks = append(chunks, window.String())
	}

	return chunks
}
