package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionState_IsValid(t *testing.T) {
	valid := []SessionState{
		SessionEmpty, SessionIngesting, SessionReady, SessionAnswering, SessionClosed,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "state %q should be valid", s)
	}

	assert.False(t, SessionState("bogus").IsValid())
	assert.False(t, SessionState("").IsValid())
}

func TestSessionState_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SessionState
		to   SessionState
		want bool
	}{
		{"empty to ingesting", SessionEmpty, SessionIngesting, true},
		{"empty to ready skips ingestion", SessionEmpty, SessionReady, false},
		{"ingesting to ready", SessionIngesting, SessionReady, true},
		{"ingesting back to empty on failure", SessionIngesting, SessionEmpty, true},
		{"ready to answering", SessionReady, SessionAnswering, true},
		{"ready to empty on new upload", SessionReady, SessionEmpty, true},
		{"answering to ready", SessionAnswering, SessionReady, true},
		{"answering to ingesting", SessionAnswering, SessionIngesting, false},
		{"any state to closed", SessionAnswering, SessionClosed, true},
		{"closed is terminal", SessionClosed, SessionReady, false},
		{"closed to closed", SessionClosed, SessionClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestSession_AppendTurn(t *testing.T) {
	s := &Session{ID: "s1", State: SessionReady}

	s.AppendTurn("What is the capital of France?", "Paris.")
	s.AppendTurn("What is its population?", "About two million.")

	require.Len(t, s.Turns, 2)
	assert.Equal(t, "What is the capital of France?", s.Turns[0].Question)
	assert.Equal(t, "Paris.", s.Turns[0].Answer)
	assert.False(t, s.Turns[0].CreatedAt.IsZero())

	// Insertion order is significant - it defines chat history.
	assert.Equal(t, "What is its population?", s.Turns[1].Question)
}

func TestSession_ClearHistory(t *testing.T) {
	s := &Session{}
	s.AppendTurn("q", "a")
	require.Len(t, s.Turns, 1)

	s.ClearHistory()
	assert.Empty(t, s.Turns)
}

func TestSession_FormatHistory(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		s := &Session{}
		assert.Equal(t, "", s.FormatHistory())
	})

	t.Run("two turns", func(t *testing.T) {
		s := &Session{}
		s.AppendTurn("Who founded Company X?", "Jane Doe founded it.")
		s.AppendTurn("When did Jane Doe found Company X?", "In 1999.")

		want := "Human: Who founded Company X?\nAI: Jane Doe founded it.\n" +
			"Human: When did Jane Doe found Company X?\nAI: In 1999.\n"
		assert.Equal(t, want, s.FormatHistory())
	})
}
