package domain

import (
	"strings"
	"time"
)

// SessionState tracks where a session is in its lifecycle.
type SessionState string

// Session lifecycle states.
const (
	// SessionEmpty means no document has been ingested yet.
	SessionEmpty SessionState = "empty"

	// SessionIngesting means a document upload is being indexed.
	SessionIngesting SessionState = "ingesting"

	// SessionReady means the session accepts questions.
	SessionReady SessionState = "ready"

	// SessionAnswering means a question is being answered.
	SessionAnswering SessionState = "answering"

	// SessionClosed means the session has been torn down.
	SessionClosed SessionState = "closed"
)

// IsValid returns true if the state is recognised.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionEmpty, SessionIngesting, SessionReady, SessionAnswering, SessionClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// CanTransition reports whether moving to the target state is legal.
// Any state may transition to Closed; otherwise the lifecycle is
// Empty -> Ingesting -> Ready <-> Answering, with ingestion failures
// returning to Empty and a new upload restarting at Empty.
func (s SessionState) CanTransition(to SessionState) bool {
	if to == SessionClosed {
		return s != SessionClosed
	}
	switch s {
	case SessionEmpty:
		return to == SessionIngesting
	case SessionIngesting:
		return to == SessionReady || to == SessionEmpty
	case SessionReady:
		return to == SessionAnswering || to == SessionEmpty
	case SessionAnswering:
		return to == SessionReady
	default:
		return false
	}
}

// ConversationTurn is one completed exchange in a session.
// The question stored is the standalone rewrite, not the raw
// utterance, so later rewrites see self-contained history.
type ConversationTurn struct {
	// Question is the standalone question for this turn.
	Question string

	// Answer is the full synthesised answer text.
	Answer string

	// CreatedAt is when the turn completed.
	CreatedAt time.Time
}

// Session binds a document, its similarity index and the conversation
// history to one chat instance. Sessions own their state exclusively;
// nothing is shared between sessions.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// State is the current lifecycle state.
	State SessionState

	// Document is the ingested document, nil while Empty.
	Document *Document

	// PassageCount is the number of indexed passages.
	PassageCount int

	// Turns is the append-only conversation log, oldest first.
	Turns []ConversationTurn

	// CreatedAt is when the session was created.
	CreatedAt time.Time
}

// AppendTurn records a completed exchange.
func (s *Session) AppendTurn(question, answer string) {
	s.Turns = append(s.Turns, ConversationTurn{
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	})
}

// ClearHistory discards the conversation log. Called on session reset
// when a new document replaces the current one.
func (s *Session) ClearHistory() {
	s.Turns = nil
}

// FormatHistory renders the conversation log for prompt substitution.
// Each turn becomes a "Human:" line followed by an "AI:" line.
func (s *Session) FormatHistory() string {
	var b strings.Builder
	for _, turn := range s.Turns {
		b.WriteString("Human: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAI: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	return b.String()
}
