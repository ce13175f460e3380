package domain

import (
	"encoding/json"
	"fmt"
)

// MBI scale bounds.
const (
	MaxEmotionalExhaustion     = 54
	MaxDepersonalization       = 30
	MaxReductionOfAchievements = 48
	RecommendationCount        = 4
)

// AssessmentResult is the validated structured output of the analysis turn.
// It is never partially constructed: either every constraint holds or the
// candidate is rejected as a whole.
type AssessmentResult struct {
	EmotionalExhaustion     int      `json:"emotional_exhaustion"`
	Depersonalization       int      `json:"depersonalization"`
	ReductionOfAchievements int      `json:"reduction_of_achievements"`
	BurnoutIndex            float64  `json:"burnout_index"`
	Recommendations         []string `json:"recommendations"`
}

// Validate checks the recommendation count and the MBI range constraints.
func (r *AssessmentResult) Validate() error {
	if len(r.Recommendations) != RecommendationCount {
		return fmt.Errorf("recommendations must contain exactly %d entries, got %d", RecommendationCount, len(r.Recommendations))
	}
	if r.EmotionalExhaustion < 0 || r.EmotionalExhaustion > MaxEmotionalExhaustion {
		return fmt.Errorf("emotional_exhaustion must be 0-%d, got %d", MaxEmotionalExhaustion, r.EmotionalExhaustion)
	}
	if r.Depersonalization < 0 || r.Depersonalization > MaxDepersonalization {
		return fmt.Errorf("depersonalization must be 0-%d, got %d", MaxDepersonalization, r.Depersonalization)
	}
	if r.ReductionOfAchievements < 0 || r.ReductionOfAchievements > MaxReductionOfAchievements {
		return fmt.Errorf("reduction_of_achievements must be 0-%d, got %d", MaxReductionOfAchievements, r.ReductionOfAchievements)
	}
	if r.BurnoutIndex < 0.0 || r.BurnoutIndex > 1.0 {
		return fmt.Errorf("burnout_index must be 0.0-1.0, got %v", r.BurnoutIndex)
	}
	return nil
}

// ToJSON returns the canonical encoding stored as the assistant message
// content of a successful analysis turn.
func (r *AssessmentResult) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode assessment result: %w", err)
	}
	return string(data), nil
}
