package services

import (
	"errors"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// IndexFactory creates a fresh vector index for one ingestion run.
// Each ingestion builds its own index; nothing is reused across uploads.
type IndexFactory func() driven.VectorIndex

// Generation parameters for the two LLM call sites.
const (
	rewriteTemperature = 0.2
	rewriteMaxTokens   = 300
	answerTemperature  = 0.2
)

// ChatService implements the conversational question-answering
// pipeline: ingestion (load, split, embed, index) on upload, and
// rewrite -> retrieve -> synthesise on each question.
type ChatService struct {
	loaders     driven.LoaderRegistry
	splitter    driven.Splitter
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	newIndex    IndexFactory
	settings    domain.ChatSettings
	sessions    *SessionManager
	promptStore driven.PromptStore
	tracer      driven.Tracer
}

// NewChatService creates a chat service with the given dependencies.
func NewChatService(
	loaders driven.LoaderRegistry,
	splitter driven.Splitter,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	newIndex IndexFactory,
	settings domain.ChatSettings,
) *ChatService {
	return &ChatService{
		loaders:  loaders,
		splitter: splitter,
		embedder: embedder,
		llm:      llm,
		newIndex: newIndex,
		settings: settings.Normalised(),
		sessions: NewSessionManager(),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// SetTracer sets the observability sink. A nil tracer disables tracing.
func (s *ChatService) SetTracer(t driven.Tracer) {
	s.tracer = t
}

// Open creates a new, empty session.
func (s *ChatService) Open() *domain.Session {
	h := s.sessions.create()
	logger.Debug("Opened session %s", h.session.ID)
	return h.snapshot()
}

// Session returns a snapshot of the session's current state.
func (s *ChatService) Session(sessionID string) (*domain.Session, error) {
	h, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot(), nil
}

// Close tears the session down, releasing its index and history.
// Closing an already-removed session is a no-op.
func (s *ChatService) Close(sessionID string) error {
	h, err := s.sessions.get(sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session.State == domain.SessionClosed {
		return nil
	}
	h.transition(domain.SessionClosed)
	h.dropIndex()
	h.session.ClearHistory()
	s.sessions.remove(sessionID)
	logger.Debug("Closed session %s", sessionID)
	return nil
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (s *ChatService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// trace emits a pipeline event to the observability sink. Tracing is
// best-effort: a nil tracer is skipped and a panicking tracer must not
// take the pipeline down with it.
func (s *ChatService) trace(kind driven.TraceEventKind, name, sessionID string, start time.Time, err error, detail map[string]any) {
	if s.tracer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tracer panic: %v", r)
		}
	}()
	s.tracer.Event(driven.TraceEvent{
		Kind:      kind,
		Name:      name,
		SessionID: sessionID,
		Duration:  time.Since(start),
		Err:       err,
		Detail:    detail,
	})
}
