package service

import "github.com/burnoutlab/orchestrator/domain"

// TriggerThreshold is the question count at which the conversation switches
// from open dialogue to structured-analysis generation.
const TriggerThreshold = 7

// ShouldTrigger decides whether the current turn must produce a structured
// assessment. It fires exactly once per session: the counter only increases,
// so the equality check holds for at most one turn. The last message must be
// the just-appended user turn; otherwise the conversation continues in
// normal mode.
func ShouldTrigger(preTurnQuestionCount int, messages []domain.Message) bool {
	if preTurnQuestionCount != TriggerThreshold {
		return false
	}
	if len(messages) == 0 {
		return false
	}
	return messages[len(messages)-1].Role == domain.RoleUser
}
