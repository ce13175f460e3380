// Package emotion provides the emotional-tone classifier abstraction used
// to annotate user messages in analysis-mode context.
package emotion

import "context"

// Score is one (label, confidence) pair from the classifier, confidences
// summing to 1.0 across the full ranking.
type Score struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier scores the emotional tone of a text, ranked by descending
// confidence.
type Classifier interface {
	Score(ctx context.Context, text string) ([]Score, error)
}

// Top returns the highest-confidence score, or false for an empty ranking.
func Top(scores []Score) (Score, bool) {
	if len(scores) == 0 {
		return Score{}, false
	}
	return scores[0], true
}
