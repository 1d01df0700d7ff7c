package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// sessionHandle is the manager's live record for one session: the
// session value plus the index and passage table backing it. The mutex
// serialises operations so at most one ingestion or answer is in
// flight per session at any time.
type sessionHandle struct {
	mu      sync.Mutex
	session *domain.Session
	index   driven.VectorIndex
	chunks  map[string]domain.Chunk
}

// transition moves the session to the target state.
// Illegal transitions indicate a programming error and are ignored
// rather than panicking; the state machine tests cover legality.
func (h *sessionHandle) transition(to domain.SessionState) {
	if h.session.State.CanTransition(to) {
		h.session.State = to
	}
}

// snapshot returns a copy of the session safe to hand to callers.
func (h *sessionHandle) snapshot() *domain.Session {
	s := *h.session
	s.Turns = make([]domain.ConversationTurn, len(h.session.Turns))
	copy(s.Turns, h.session.Turns)
	return &s
}

// dropIndex closes and forgets the session's index and passages.
func (h *sessionHandle) dropIndex() {
	if h.index != nil {
		h.index.Close()
		h.index = nil
	}
	h.chunks = nil
	h.session.Document = nil
	h.session.PassageCount = 0
}

// SessionManager owns the session-keyed mapping. Sessions are fully
// independent: each handle guards its own state and nothing is shared
// between sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*sessionHandle
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*sessionHandle),
	}
}

// create registers a new empty session and returns its handle.
func (m *SessionManager) create() *sessionHandle {
	h := &sessionHandle{
		session: &domain.Session{
			ID:        uuid.New().String(),
			State:     domain.SessionEmpty,
			CreatedAt: time.Now(),
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[h.session.ID] = h
	return h
}

// get returns the handle for a session ID.
func (m *SessionManager) get(id string) (*sessionHandle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return h, nil
}

// remove forgets a session. The handle itself is left to the caller
// to tear down.
func (m *SessionManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
