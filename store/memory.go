package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/burnoutlab/orchestrator/domain"
)

// MemoryStore is an in-memory Store for tests and single-process use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	session  domain.Session
	messages []domain.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

// CreateSession creates a new active session with the instruction pinned as
// its first message.
func (s *MemoryStore) CreateSession(ctx context.Context, seedInstruction string, maxQuestions int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.New().String()
	now := time.Now()
	s.sessions[sessionID] = &memorySession{
		session: domain.Session{
			SessionID:     sessionID,
			CreatedAt:     now,
			QuestionCount: 0,
			MaxQuestions:  maxQuestions,
			Status:        domain.SessionStatusActive,
		},
		messages: []domain.Message{
			{Role: domain.RoleSystem, Content: seedInstruction, Timestamp: now},
		},
	}
	return sessionID, nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when not found.
func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	session := rec.session
	return &session, nil
}

// AppendMessage appends a message; no-op unless the session is active.
func (s *MemoryStore) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok || rec.session.Status != domain.SessionStatusActive {
		return nil
	}
	rec.messages = append(rec.messages, domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return nil
}

// IncrementQuestionCount bumps the counter and flips the status to
// completed once max_questions is reached.
func (s *MemoryStore) IncrementQuestionCount(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok || rec.session.Status != domain.SessionStatusActive {
		return nil
	}
	rec.session.QuestionCount++
	if rec.session.QuestionCount >= rec.session.MaxQuestions {
		rec.session.Status = domain.SessionStatusCompleted
	}
	return nil
}

// GetMessages returns the session's messages in insertion order.
func (s *MemoryStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	messages := make([]domain.Message, len(rec.messages))
	copy(messages, rec.messages)
	return messages, nil
}

// Compact trims the stored history, keeping the pinned first message.
func (s *MemoryStore) Compact(ctx context.Context, sessionID string, maxHistory int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	rec.messages = domain.CompactMessages(rec.messages, maxHistory)
	return nil
}

// DeleteCompleted removes completed sessions.
func (s *MemoryStore) DeleteCompleted(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rec := range s.sessions {
		if rec.session.Status == domain.SessionStatusCompleted {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// ActiveSessionCount returns the number of active sessions.
func (s *MemoryStore) ActiveSessionCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.sessions {
		if rec.session.Status == domain.SessionStatusActive {
			count++
		}
	}
	return count, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
