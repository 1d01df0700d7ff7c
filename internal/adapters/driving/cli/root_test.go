package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// mockChatService is a canned chat pipeline for command tests.
type mockChatService struct {
	session    *domain.Session
	ingested   []*domain.RawDocument
	asked      []string
	askedFull  []string
	answer     []string
	passages   []domain.RetrievedPassage
	ingestErr  error
	askErr     error
	streamErr  error
	closedIDs  []string
	sessionErr error
}

// Ensure mockChatService implements the interface.
var _ driving.ChatService = (*mockChatService)(nil)

func newMockChatService() *mockChatService {
	return &mockChatService{
		session: &domain.Session{
			ID:        "session-1",
			State:     domain.SessionEmpty,
			CreatedAt: time.Now(),
		},
		answer: []string{"The answer."},
	}
}

func (m *mockChatService) Open() *domain.Session {
	return m.session
}

func (m *mockChatService) Ingest(_ context.Context, sessionID string, raw *domain.RawDocument) error {
	if m.ingestErr != nil {
		return m.ingestErr
	}
	m.ingested = append(m.ingested, raw)
	m.session.State = domain.SessionReady
	m.session.Document = &domain.Document{ID: "doc-1", Name: raw.Name}
	return nil
}

func (m *mockChatService) Ask(_ context.Context, _ string, utterance string) (*driving.AnswerStream, error) {
	if m.askErr != nil {
		return nil, m.askErr
	}
	m.asked = append(m.asked, utterance)
	return m.stream(utterance, m.passages), nil
}

func (m *mockChatService) AskDocument(_ context.Context, _ string, utterance string) (*driving.AnswerStream, error) {
	if m.askErr != nil {
		return nil, m.askErr
	}
	m.askedFull = append(m.askedFull, utterance)
	return m.stream(utterance, nil), nil
}

func (m *mockChatService) Session(string) (*domain.Session, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockChatService) Close(sessionID string) error {
	m.closedIDs = append(m.closedIDs, sessionID)
	return nil
}

func (m *mockChatService) stream(question string, passages []domain.RetrievedPassage) *driving.AnswerStream {
	out := make(chan driven.StreamToken, len(m.answer)+2)
	for _, frag := range m.answer {
		out <- driven.StreamToken{Content: frag}
	}
	if m.streamErr != nil {
		out <- driven.StreamToken{Err: m.streamErr}
	} else {
		out <- driven.StreamToken{Done: true}
	}
	close(out)
	return &driving.AnswerStream{
		Question: question,
		Passages: passages,
		Tokens:   out,
	}
}

// setupTestServices injects a mock pipeline into the command wiring.
func setupTestServices() (*mockChatService, func()) {
	mock := newMockChatService()
	chatService = mock
	return mock, func() { chatService = nil }
}

func passageFixture(position int, name string) domain.RetrievedPassage {
	return domain.RetrievedPassage{
		Chunk: domain.Chunk{
			ID:       fmt.Sprintf("chunk-%d", position),
			Content:  fmt.Sprintf("passage %d", position),
			Position: position,
		},
		Score:        1.0,
		DocumentName: name,
	}
}
