package llm

import (
	"context"
	"strings"
)

// MockGenerator is a canned Generator for tests and local development.
type MockGenerator struct{}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Ensure MockGenerator implements Generator.
var _ Generator = (*MockGenerator)(nil)

const mockQuestion = "[MOCK] Расскажите, как вы чувствуете себя на работе в последнее время?"

const mockAnalysis = `{
  "emotional_exhaustion": 20,
  "depersonalization": 8,
  "reduction_of_achievements": 32,
  "burnout_index": 0.45,
  "recommendations": [
    "Делайте короткие перерывы в течение рабочего дня.",
    "Практикуйте осознанное общение с коллегами.",
    "Обсудите с руководителем ротацию задач.",
    "Разграничьте время работы и отдыха."
  ]
}`

// Generate returns a canned question, or a canned assessment JSON when the
// leading message is the analysis instruction.
func (m *MockGenerator) Generate(ctx context.Context, messages []ChatMessage) (string, error) {
	return m.respond(messages), nil
}

// GenerateStream splits the canned response into small deltas. Chunks are
// cut on rune boundaries so multi-byte text survives re-encoding.
func (m *MockGenerator) GenerateStream(ctx context.Context, messages []ChatMessage, onDelta func(chunk string) error) error {
	runes := []rune(m.respond(messages))
	const chunkSize = 8
	for i := 0; i < len(runes); i += chunkSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if err := onDelta(string(runes[i:end])); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockGenerator) respond(messages []ChatMessage) string {
	if len(messages) > 0 && messages[0].Role == "system" &&
		strings.Contains(messages[0].Content, "emotional_exhaustion") {
		return mockAnalysis
	}
	return mockQuestion
}
