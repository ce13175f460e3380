// Package store defines the session storage interface and implementations.
package store

import (
	"context"

	"github.com/burnoutlab/orchestrator/domain"
)

// Store defines the interface for session persistence. Implementations must
// serialize writes per session so that the counter and status invariants
// hold under concurrent turns.
type Store interface {
	// CreateSession creates a new active session seeded with the given
	// instruction as its first (system) message and returns its ID.
	CreateSession(ctx context.Context, seedInstruction string, maxQuestions int) (string, error)

	// GetSession retrieves a session by ID. Returns (nil, nil) when the
	// session does not exist.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// AppendMessage appends a message to a session. No-op when the
	// session is not active.
	AppendMessage(ctx context.Context, sessionID, role, content string) error

	// IncrementQuestionCount increments the session's question counter by
	// one and flips the status to completed once the counter reaches the
	// session's max_questions. The status never reverts; no-op when the
	// session is not active.
	IncrementQuestionCount(ctx context.Context, sessionID string) error

	// GetMessages returns the session's messages in insertion order.
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Compact bounds the stored history to maxHistory messages with the
	// leading instruction message pinned.
	Compact(ctx context.Context, sessionID string, maxHistory int) error

	// DeleteCompleted removes all completed sessions and their messages,
	// returning the number of sessions deleted.
	DeleteCompleted(ctx context.Context) (int64, error)

	// ActiveSessionCount returns the number of active sessions.
	ActiveSessionCount(ctx context.Context) (int, error)

	// Close releases the underlying resources.
	Close() error
}
