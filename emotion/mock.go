package emotion

import "context"

// MockClassifier returns a fixed ranking, for tests and mock mode.
type MockClassifier struct{}

// NewMockClassifier creates a new mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Ensure MockClassifier implements Classifier.
var _ Classifier = (*MockClassifier)(nil)

// Score returns a fixed ranking regardless of input.
func (m *MockClassifier) Score(ctx context.Context, text string) ([]Score, error) {
	return []Score{
		{Label: "нейтрально", Confidence: 0.6},
		{Label: "грусть", Confidence: 0.3},
		{Label: "радость", Confidence: 0.1},
	}, nil
}
