// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// DocumentIngested signals that indexing finished and the session is
// ready for questions.
type DocumentIngested struct {
	Session *domain.Session
}

// IngestFailed signals that loading or indexing the document failed.
// The session holds no document until a retry succeeds.
type IngestFailed struct {
	Err error
}

// AnswerStarted carries a freshly opened answer stream.
type AnswerStarted struct {
	Stream *driving.AnswerStream
}

// AnswerToken carries one streamed answer fragment.
type AnswerToken struct {
	Content string
}

// AnswerDone signals that the answer stream completed.
type AnswerDone struct{}

// AnswerFailed signals that answering broke off mid-stream. Any
// fragments already shown stay on screen.
type AnswerFailed struct {
	Err error
}

// DocumentChanged signals that the watched file was modified on disk
// and should be re-ingested.
type DocumentChanged struct{}
