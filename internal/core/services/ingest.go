package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ingest loads the upload, splits it into passages, embeds them and
// publishes a fresh similarity index for the session.
//
// Indexing is all-or-nothing: the index is published only after every
// passage is embedded and inserted. On any failure the session returns
// to Empty with no index, so the retriever never sees partial results.
func (s *ChatService) Ingest(ctx context.Context, sessionID string, raw *domain.RawDocument) error {
	h, err := s.sessions.get(sessionID)
	if err != nil {
		return err
	}

	if !h.mu.TryLock() {
		return domain.ErrSessionBusy
	}
	defer h.mu.Unlock()

	if h.session.State == domain.SessionClosed {
		return domain.ErrSessionClosed
	}
	if raw == nil {
		return domain.ErrInvalidInput
	}
	if len(raw.Content) == 0 {
		return domain.ErrEmptyDocument
	}
	if int64(len(raw.Content)) > s.settings.MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrFileTooLarge, len(raw.Content), s.settings.MaxFileSize)
	}

	// A new upload into a Ready session restarts the lifecycle:
	// previous index and conversation history are discarded.
	if h.session.State == domain.SessionReady {
		h.dropIndex()
		h.session.ClearHistory()
		h.transition(domain.SessionEmpty)
	}

	h.transition(domain.SessionIngesting)
	logger.Section("Ingestion")
	logger.Info("Ingesting %q (%d bytes) into session %s", raw.Name, len(raw.Content), sessionID)

	start := time.Now()
	passages, ingestErr := s.ingest(ctx, h, raw)
	s.trace(driven.TraceIngestion, "ingest", sessionID, start, ingestErr, map[string]any{
		"document": raw.Name,
		"passages": passages,
	})

	if ingestErr != nil {
		h.dropIndex()
		h.transition(domain.SessionEmpty)
		logger.Warn("Ingestion failed: %v", ingestErr)
		return ingestErr
	}

	h.transition(domain.SessionReady)
	logger.Info("Indexed %d passages", passages)
	return nil
}

// ingest runs the load -> split -> embed -> index path and publishes
// the result onto the handle. Returns the passage count.
func (s *ChatService) ingest(ctx context.Context, h *sessionHandle, raw *domain.RawDocument) (int, error) {
	loader, err := s.loaders.Select(raw)
	if err != nil {
		return 0, err
	}

	doc, err := loader.Load(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}

	chunks, err := s.splitter.Split(ctx, doc)
	if err != nil {
		return 0, err
	}
	logger.Debug("Split %q into %d passages", doc.Name, len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embedStart := time.Now()
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	s.trace(driven.TraceEmbedding, "embed_passages", h.session.ID, embedStart, err, map[string]any{
		"count": len(texts),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrIndexingFailed, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d passages",
			domain.ErrIndexingFailed, len(embeddings), len(chunks))
	}

	index := s.newIndex()
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
		if err := index.Add(ctx, chunks[i].ID, chunks[i].Position, embeddings[i]); err != nil {
			index.Close()
			return 0, fmt.Errorf("%w: %w", domain.ErrIndexingFailed, err)
		}
	}

	byID := make(map[string]domain.Chunk, len(chunks))
	for _, ch := range chunks {
		byID[ch.ID] = ch
	}

	// Publish only after every passage is indexed.
	h.index = index
	h.chunks = byID
	h.session.Document = doc
	h.session.PassageCount = len(chunks)
	return len(chunks), nil
}
