package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// ChatService is the conversational question-answering pipeline.
// One session binds one document; each question runs the rewrite ->
// retrieve -> synthesise path and appends a turn on completion.
type ChatService interface {
	// Open creates a new, empty session. The session accepts questions
	// only after a successful Ingest.
	Open() *domain.Session

	// Ingest loads the upload, splits it into passages, embeds them and
	// publishes a fresh similarity index for the session. Indexing is
	// all-or-nothing: on any failure the session returns to Empty with
	// no partial index, and the error prompts the user to retry.
	// Ingesting into a Ready session replaces the document and clears
	// the conversation history.
	Ingest(ctx context.Context, sessionID string, raw *domain.RawDocument) error

	// Ask answers one question against the session's document.
	// The returned stream must be drained (or its context cancelled)
	// before the next question. The conversation turn is appended only
	// after the stream completes; an abandoned stream records nothing.
	Ask(ctx context.Context, sessionID, utterance string) (*AnswerStream, error)

	// AskDocument answers against the entire document without retrieval,
	// using the quote-then-answer prompt. The document text must fit the
	// configured character budget.
	AskDocument(ctx context.Context, sessionID, utterance string) (*AnswerStream, error)

	// Session returns a snapshot of the session's current state.
	Session(sessionID string) (*domain.Session, error)

	// Close tears the session down. Idempotent.
	Close(sessionID string) error
}

// AnswerStream is the in-progress answer to one question.
// Tokens is a finite, non-restartable sequence: the consumer pulls
// fragments until the channel closes. Passages is the exact retrieved
// set supplied as grounding context, for attribution.
type AnswerStream struct {
	// Question is the standalone question answered by this stream.
	Question string

	// Passages are the retrieved passages, in rank order.
	Passages []domain.RetrievedPassage

	// Tokens yields answer fragments until the stream ends.
	Tokens <-chan driven.StreamToken
}
