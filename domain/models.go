// Package domain defines the core domain models for the survey orchestrator.
package domain

import "time"

// SessionStatus represents the lifecycle state of a survey session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Message roles. Exactly one system message exists per session and it is
// always the first message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session represents one ongoing survey conversation.
type Session struct {
	SessionID     string        `json:"session_id"`
	CreatedAt     time.Time     `json:"created_at"`
	QuestionCount int           `json:"question_count"`
	MaxQuestions  int           `json:"max_questions"`
	Status        SessionStatus `json:"status"`
}

// Completed reports whether the session has reached its question limit.
func (s *Session) Completed() bool {
	return s.Status == SessionStatusCompleted
}

// Message represents a single message in a session. Insertion order is
// significant and never changed; timestamps increase monotonically within
// a session.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
