package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// streamBuffer sizes the outgoing token channel so the LLM reader is
// not lock-stepped with the consumer.
const streamBuffer = 64

// maxDocumentPromptChars bounds the document text substituted into the
// whole-document prompt by AskDocument.
const maxDocumentPromptChars = 100000

// Ask answers one question against the session's document.
//
// The session lock is taken here and released by the streaming
// goroutine once the answer completes or is abandoned, so at most one
// answer is in flight per session. A completed answer appends a
// conversation turn; an abandoned or failed one does not, and the
// session returns to Ready either way.
func (s *ChatService) Ask(ctx context.Context, sessionID, utterance string) (*driving.AnswerStream, error) {
	h, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}

	if !h.mu.TryLock() {
		return nil, domain.ErrSessionBusy
	}
	streaming := false
	defer func() {
		if !streaming {
			h.mu.Unlock()
		}
	}()

	if err := readyForQuestion(h); err != nil {
		return nil, err
	}
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, domain.ErrInvalidInput
	}

	logger.Section("Question")
	logger.Debug("Utterance: %q", utterance)

	question, err := s.rewrite(ctx, h, utterance)
	if err != nil {
		return nil, err
	}
	logger.Debug("Standalone question: %q", question)

	passages, err := s.retrieve(ctx, h, question)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d passages", len(passages))

	contextParts := make([]string, len(passages))
	for i, p := range passages {
		contextParts[i] = p.Chunk.Content
	}
	prompt := fillPrompt(s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt), map[string]string{
		"context":  strings.Join(contextParts, "\n\n"),
		"question": question,
	})

	stream, err := s.streamAnswer(ctx, h, question, passages, prompt)
	if err != nil {
		return nil, err
	}
	streaming = true
	return stream, nil
}

// AskDocument answers against the entire document without retrieval,
// using the quote-then-answer prompt. The attribution set is empty
// since no passages are retrieved.
func (s *ChatService) AskDocument(ctx context.Context, sessionID, utterance string) (*driving.AnswerStream, error) {
	h, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}

	if !h.mu.TryLock() {
		return nil, domain.ErrSessionBusy
	}
	streaming := false
	defer func() {
		if !streaming {
			h.mu.Unlock()
		}
	}()

	if err := readyForQuestion(h); err != nil {
		return nil, err
	}
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(h.session.Document.Content) > maxDocumentPromptChars {
		return nil, fmt.Errorf("%w: document too large for full-document answering", domain.ErrFileTooLarge)
	}

	question, err := s.rewrite(ctx, h, utterance)
	if err != nil {
		return nil, err
	}

	prompt := fillPrompt(s.loadPrompt(driven.PromptDocumentQA, defaultDocumentQAPrompt), map[string]string{
		"document": h.session.Document.Content,
		"question": question,
	})

	stream, err := s.streamAnswer(ctx, h, question, nil, prompt)
	if err != nil {
		return nil, err
	}
	streaming = true
	return stream, nil
}

// readyForQuestion checks the session accepts a question right now.
func readyForQuestion(h *sessionHandle) error {
	switch h.session.State {
	case domain.SessionClosed:
		return domain.ErrSessionClosed
	case domain.SessionReady:
		return nil
	default:
		// Empty or still ingesting: nothing to answer from yet.
		return domain.ErrIndexUnavailable
	}
}

// rewrite produces a standalone question from the utterance. With no
// history the utterance already stands alone and is returned verbatim;
// otherwise the language model reformulates it (or, per the prompt's
// own instruction, returns it as is).
func (s *ChatService) rewrite(ctx context.Context, h *sessionHandle, utterance string) (string, error) {
	if len(h.session.Turns) == 0 {
		return utterance, nil
	}

	prompt := fillPrompt(s.loadPrompt(driven.PromptQuestionRewrite, defaultQuestionRewritePrompt), map[string]string{
		"chat_history": h.session.FormatHistory(),
		"question":     utterance,
	})

	start := time.Now()
	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   rewriteMaxTokens,
		Temperature: rewriteTemperature,
	})
	s.trace(driven.TraceGeneration, "question_rewrite", h.session.ID, start, err, nil)
	if err != nil {
		return "", fmt.Errorf("%w: rewrite question: %w", domain.ErrGeneration, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: rewriter returned empty output", domain.ErrGeneration)
	}
	return out, nil
}

// retrieve embeds the question and returns the top-k most similar
// passages. An empty index yields an empty set, which is not an error:
// the synthesiser still runs and will say the document has no answer.
func (s *ChatService) retrieve(ctx context.Context, h *sessionHandle, question string) ([]domain.RetrievedPassage, error) {
	if h.index == nil {
		return nil, domain.ErrIndexUnavailable
	}

	embedStart := time.Now()
	vec, err := s.embedder.Embed(ctx, question)
	s.trace(driven.TraceEmbedding, "embed_question", h.session.ID, embedStart, err, nil)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	searchStart := time.Now()
	hits, err := h.index.Search(ctx, vec, s.settings.TopK)
	s.trace(driven.TraceRetrieval, "retrieve", h.session.ID, searchStart, err, map[string]any{
		"k":    s.settings.TopK,
		"hits": len(hits),
	})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	passages := make([]domain.RetrievedPassage, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := h.chunks[hit.ChunkID]
		if !ok {
			continue
		}
		passages = append(passages, domain.RetrievedPassage{
			Chunk:        chunk,
			Score:        hit.Similarity,
			DocumentName: h.session.Document.Name,
		})
	}
	return passages, nil
}

// streamAnswer starts the LLM stream and hands back an AnswerStream.
// The pump goroutine owns the session lock from here on.
func (s *ChatService) streamAnswer(
	ctx context.Context,
	h *sessionHandle,
	question string,
	passages []domain.RetrievedPassage,
	prompt string,
) (*driving.AnswerStream, error) {
	tokens, err := s.llm.GenerateStream(ctx, prompt, driven.GenerateOptions{
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	h.transition(domain.SessionAnswering)
	out := make(chan driven.StreamToken, streamBuffer)
	go s.pump(ctx, h, question, tokens, out)

	return &driving.AnswerStream{
		Question: question,
		Passages: passages,
		Tokens:   out,
	}, nil
}

// pump forwards LLM tokens to the consumer, accumulating the full
// answer text. When the stream completes it appends the conversation
// turn and returns the session to Ready; cancellation or a mid-stream
// error returns to Ready without recording a turn. Partial output
// already delivered is not rolled back.
func (s *ChatService) pump(ctx context.Context, h *sessionHandle, question string, in <-chan driven.StreamToken, out chan<- driven.StreamToken) {
	start := time.Now()
	var answer strings.Builder
	completed := false
	var streamErr error

loop:
	for {
		select {
		case <-ctx.Done():
			streamErr = ctx.Err()
			break loop
		case tok, ok := <-in:
			if !ok {
				completed = streamErr == nil
				break loop
			}
			if tok.Err != nil {
				streamErr = fmt.Errorf("%w: %w", domain.ErrGeneration, tok.Err)
				tok.Err = streamErr
			}
			answer.WriteString(tok.Content)

			select {
			case out <- tok:
			case <-ctx.Done():
				streamErr = ctx.Err()
				break loop
			}

			if tok.Err != nil {
				break loop
			}
			if tok.Done {
				completed = true
				break loop
			}
		}
	}

	close(out)

	h.transition(domain.SessionReady)
	if completed {
		h.session.AppendTurn(question, strings.TrimSpace(answer.String()))
	} else {
		logger.Debug("Answer abandoned, no turn recorded: %v", streamErr)
	}
	s.trace(driven.TraceGeneration, "answer", h.session.ID, start, streamErr, map[string]any{
		"completed": completed,
		"chars":     answer.Len(),
	})
	h.mu.Unlock()
}
