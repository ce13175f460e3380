// Package llm provides the text-generation abstraction and its
// OpenAI-compatible HTTP implementation.
package llm

import "context"

// ChatMessage is a single message sent to the text-generation service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator defines the text-generation operations the orchestrator needs.
type Generator interface {
	// Generate returns the full completion text for the message list.
	Generate(ctx context.Context, messages []ChatMessage) (string, error)

	// GenerateStream streams the completion as an ordered sequence of
	// text deltas. The sequence is finite and non-restartable; an error
	// returned by onDelta cancels the stream.
	GenerateStream(ctx context.Context, messages []ChatMessage, onDelta func(chunk string) error) error
}

// Ensure Client implements Generator.
var _ Generator = (*Client)(nil)
