package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/burnoutlab/orchestrator/assessment"
	"github.com/burnoutlab/orchestrator/domain"
	"github.com/burnoutlab/orchestrator/emotion"
	"github.com/burnoutlab/orchestrator/llm"
)

// Execute runs one survey turn. Session mutations are committed only after
// generation succeeds, so a failed turn leaves the session unadvanced and
// the caller may retry the identical turn on the same session.
func (s *Service) Execute(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	req = s.withDefaults(req)

	sessionID, err := s.resolveSessionID(ctx, req)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	turn, err := s.prepareTurn(ctx, sessionID, req)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, turn.context)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	content, result := s.reduceAnalysis(turn.triggered, text)

	session, err := s.commitTurn(ctx, sessionID, req, content)
	if err != nil {
		return nil, err
	}

	return &domain.QueryResponse{
		Content:        content,
		SessionID:      sessionID,
		IsCompleted:    session.Completed(),
		QuestionCount:  session.QuestionCount,
		TotalQuestions: session.MaxQuestions,
		IsAnalysis:     result != nil,
		Assessment:     result,
	}, nil
}

// ExecuteStream runs one survey turn in streaming mode, forwarding each text
// delta to emit and terminating with exactly one final fragment carrying the
// updated session state. Nothing is committed until the full stream has been
// consumed: if the generator fails or emit cancels mid-stream, the session
// does not advance.
func (s *Service) ExecuteStream(ctx context.Context, req domain.QueryRequest, emit func(domain.StreamFragment) error) error {
	req = s.withDefaults(req)

	sessionID, err := s.resolveSessionID(ctx, req)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	turn, err := s.prepareTurn(ctx, sessionID, req)
	if err != nil {
		return err
	}

	var full strings.Builder
	err = s.generator.GenerateStream(ctx, turn.context, func(chunk string) error {
		full.WriteString(chunk)
		return emit(domain.StreamFragment{
			ContentChunk:   chunk,
			SessionID:      sessionID,
			IsCompleted:    false,
			QuestionCount:  turn.preTurnCount,
			TotalQuestions: req.MaxQuestions,
			IsFinalChunk:   false,
			IsAnalysis:     turn.triggered,
		})
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	content, result := s.reduceAnalysis(turn.triggered, full.String())

	session, err := s.commitTurn(ctx, sessionID, req, content)
	if err != nil {
		return err
	}

	return emit(domain.StreamFragment{
		ContentChunk:   "",
		SessionID:      sessionID,
		IsCompleted:    session.Completed(),
		QuestionCount:  session.QuestionCount,
		TotalQuestions: session.MaxQuestions,
		IsFinalChunk:   true,
		IsAnalysis:     result != nil,
	})
}

// turnState carries the per-turn context computed before generation.
type turnState struct {
	preTurnCount int
	triggered    bool
	context      []llm.ChatMessage
}

// resolveSessionID reuses the supplied session when it resolves, and
// otherwise creates a new one seeded with the survey instruction.
func (s *Service) resolveSessionID(ctx context.Context, req domain.QueryRequest) (string, error) {
	if req.SessionID != "" {
		session, err := s.store.GetSession(ctx, req.SessionID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve session: %w", err)
		}
		if session != nil {
			return req.SessionID, nil
		}
	}

	sessionID, err := s.store.CreateSession(ctx, buildInstruction(req.UserContext), req.MaxQuestions)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sessionID, nil
}

// prepareTurn reads the session state and builds the outbound message
// context with the pending user message included. The pending message is
// only persisted at commit time.
func (s *Service) prepareTurn(ctx context.Context, sessionID string, req domain.QueryRequest) (*turnState, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s disappeared before turn", sessionID)
	}

	stored, err := s.store.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	history := append(stored, domain.Message{
		Role:      domain.RoleUser,
		Content:   req.UserInput,
		Timestamp: time.Now(),
	})
	history = domain.CompactMessages(history, req.MaxHistory)

	triggered := ShouldTrigger(session.QuestionCount, history)

	var msgCtx []llm.ChatMessage
	if triggered {
		msgCtx = s.analysisContext(ctx, history)
	} else {
		msgCtx = toChatMessages(history)
	}

	return &turnState{
		preTurnCount: session.QuestionCount,
		triggered:    triggered,
		context:      msgCtx,
	}, nil
}

// reduceAnalysis converts the full generation text into the stored assistant
// content. On a triggered turn a successful parse yields the canonical JSON
// encoding and the typed result; a failed parse falls back to the raw text
// and the turn is not flagged as analysis.
func (s *Service) reduceAnalysis(triggered bool, text string) (string, *domain.AssessmentResult) {
	if !triggered {
		return text, nil
	}

	result, err := assessment.Parse(text)
	if err != nil {
		log.Printf("WARN: failed to parse assessment, storing raw text: %v", err)
		return text, nil
	}

	encoded, err := result.ToJSON()
	if err != nil {
		log.Printf("WARN: failed to encode assessment, storing raw text: %v", err)
		return text, nil
	}
	return encoded, result
}

// commitTurn persists the user and assistant messages, compacts the stored
// history, and advances the question counter, then returns the updated
// session.
func (s *Service) commitTurn(ctx context.Context, sessionID string, req domain.QueryRequest, assistantContent string) (*domain.Session, error) {
	if err := s.store.AppendMessage(ctx, sessionID, domain.RoleUser, req.UserInput); err != nil {
		return nil, fmt.Errorf("failed to append user message: %w", err)
	}
	if err := s.store.Compact(ctx, sessionID, req.MaxHistory); err != nil {
		return nil, fmt.Errorf("failed to compact history: %w", err)
	}
	if err := s.store.AppendMessage(ctx, sessionID, domain.RoleAssistant, assistantContent); err != nil {
		return nil, fmt.Errorf("failed to append assistant message: %w", err)
	}
	if err := s.store.IncrementQuestionCount(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to increment question count: %w", err)
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s disappeared after commit", sessionID)
	}
	return session, nil
}

// analysisContext builds the message context for the analysis turn: the
// analysis instruction replaces the survey instruction, prior system content
// is dropped, and user turns are annotated with their dominant emotional
// tone when a classifier is configured.
func (s *Service) analysisContext(ctx context.Context, messages []domain.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(messages)+1)
	out = append(out, llm.ChatMessage{Role: domain.RoleSystem, Content: analysisPrompt})

	for _, msg := range messages {
		if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
			continue
		}
		content := msg.Content
		if msg.Role == domain.RoleUser && s.classifier != nil {
			content = s.annotateTone(ctx, content)
		}
		out = append(out, llm.ChatMessage{Role: msg.Role, Content: content})
	}
	return out
}

// annotateTone appends the top-ranked emotion label to a user message.
// Classifier failures leave the message unannotated.
func (s *Service) annotateTone(ctx context.Context, content string) string {
	scores, err := s.classifier.Score(ctx, content)
	if err != nil {
		log.Printf("WARN: emotion classification failed: %v", err)
		return content
	}
	top, ok := emotion.Top(scores)
	if !ok {
		return content
	}
	return fmt.Sprintf("%s\n[эмоциональный тон: %s (%.2f)]", content, top.Label, top.Confidence)
}

func (s *Service) withDefaults(req domain.QueryRequest) domain.QueryRequest {
	if req.MaxQuestions <= 0 {
		req.MaxQuestions = s.config.DefaultMaxQuestions
	}
	if req.MaxHistory <= 0 {
		req.MaxHistory = s.config.DefaultMaxHistory
	}
	return req
}

func toChatMessages(messages []domain.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, llm.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return out
}
