package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/burnoutlab/orchestrator/domain"
)

// SQLiteStore implements Store using SQLite. Writes go through transactions
// so concurrent turns against the same session serialize at the database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps :memory: databases
	// from being split across pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			question_count INTEGER NOT NULL DEFAULT 0,
			max_questions INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new active session with the instruction pinned as
// its first message.
func (s *SQLiteStore) CreateSession(ctx context.Context, seedInstruction string, maxQuestions int) (string, error) {
	sessionID := uuid.New().String()
	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, created_at, question_count, max_questions, status) VALUES (?, ?, 0, ?, ?)`,
		sessionID, now, maxQuestions, domain.SessionStatusActive); err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, domain.RoleSystem, seedInstruction, now); err != nil {
		return "", fmt.Errorf("failed to insert instruction message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return sessionID, nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when not found.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at, question_count, max_questions, status FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.CreatedAt, &session.QuestionCount, &session.MaxQuestions, &session.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendMessage appends a message; the insert is guarded so only active
// sessions accept new messages.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at)
		 SELECT session_id, ?, ?, ? FROM sessions WHERE session_id = ? AND status = ?`,
		role, content, time.Now(), sessionID, domain.SessionStatusActive)
	return err
}

// IncrementQuestionCount bumps the counter and flips the status to
// completed once max_questions is reached.
func (s *SQLiteStore) IncrementQuestionCount(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET question_count = question_count + 1 WHERE session_id = ? AND status = ?`,
		sessionID, domain.SessionStatusActive); err != nil {
		return fmt.Errorf("failed to increment question count: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE session_id = ? AND question_count >= max_questions`,
		domain.SessionStatusCompleted, sessionID); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	return tx.Commit()
}

// GetMessages returns the session's messages in insertion order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Compact trims the stored history to the pinned first message plus the
// most recent maxHistory-1 messages. No-op when the history fits.
func (s *SQLiteStore) Compact(ctx context.Context, sessionID string, maxHistory int) error {
	if maxHistory < 1 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}
	if count <= maxHistory+1 {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id = ?
		   AND id NOT IN (SELECT MIN(id) FROM messages WHERE session_id = ?)
		   AND id NOT IN (SELECT id FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?)`,
		sessionID, sessionID, sessionID, maxHistory-1); err != nil {
		return fmt.Errorf("failed to compact messages: %w", err)
	}

	return tx.Commit()
}

// DeleteCompleted removes completed sessions and their messages.
func (s *SQLiteStore) DeleteCompleted(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id IN (SELECT session_id FROM sessions WHERE status = ?)`,
		domain.SessionStatusCompleted); err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE status = ?`, domain.SessionStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	deleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// ActiveSessionCount returns the number of active sessions.
func (s *SQLiteStore) ActiveSessionCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE status = ?`, domain.SessionStatusActive).Scan(&count)
	return count, err
}
