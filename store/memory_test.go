package store

import (
	"context"
	"testing"

	"github.com/burnoutlab/orchestrator/domain"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "инструкция", 2)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.AppendMessage(ctx, id, domain.RoleUser, "ответ"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if err := s.IncrementQuestionCount(ctx, id); err != nil {
		t.Fatalf("IncrementQuestionCount failed: %v", err)
	}

	session, err := s.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.QuestionCount != 1 || session.Status != domain.SessionStatusActive {
		t.Fatalf("unexpected session: %+v", session)
	}

	if err := s.IncrementQuestionCount(ctx, id); err != nil {
		t.Fatalf("IncrementQuestionCount failed: %v", err)
	}
	session, _ = s.GetSession(ctx, id)
	if session.Status != domain.SessionStatusCompleted {
		t.Fatalf("expected completed session: %+v", session)
	}

	// Active-only guards
	if err := s.AppendMessage(ctx, id, domain.RoleUser, "ещё"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	messages, _ := s.GetMessages(ctx, id)
	if len(messages) != 2 {
		t.Fatalf("message appended to completed session: %d", len(messages))
	}

	deleted, err := s.DeleteCompleted(ctx)
	if err != nil {
		t.Fatalf("DeleteCompleted failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted session, got %d", deleted)
	}
	if session, _ := s.GetSession(ctx, id); session != nil {
		t.Fatalf("completed session survived cleanup")
	}
}

func TestMemoryStoreCompact(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, "инструкция", 20)
	for i := 0; i < 10; i++ {
		s.AppendMessage(ctx, id, domain.RoleUser, "ответ")
	}

	if err := s.Compact(ctx, id, 4); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	messages, _ := s.GetMessages(ctx, id)
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleSystem {
		t.Fatalf("instruction not pinned: %+v", messages[0])
	}
}

func TestMemoryStoreGetMessagesCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, "инструкция", 8)
	messages, _ := s.GetMessages(ctx, id)
	messages[0].Content = "mutated"

	fresh, _ := s.GetMessages(ctx, id)
	if fresh[0].Content != "инструкция" {
		t.Fatalf("stored messages aliased by caller: %+v", fresh[0])
	}
}
