package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/burnoutlab/orchestrator/domain"
)

// ErrNoJSON is returned when no parsable JSON object can be located in the
// input text.
var ErrNoJSON = errors.New("no JSON object found in text")

var requiredFields = []string{
	"emotional_exhaustion",
	"depersonalization",
	"reduction_of_achievements",
	"burnout_index",
	"recommendations",
}

// Parse extracts a JSON object from raw LLM output and validates it into an
// AssessmentResult. Validation is all-or-nothing: any missing field, wrong
// type, or out-of-range value rejects the whole candidate.
func Parse(raw string) (*domain.AssessmentResult, error) {
	jsonStr, ok := ExtractJSON(raw)
	if !ok {
		return nil, ErrNoJSON
	}

	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode candidate: %w", err)
	}

	for _, field := range requiredFields {
		if _, present := data[field]; !present {
			return nil, fmt.Errorf("missing required field %q", field)
		}
	}

	ee, err := intField(data, "emotional_exhaustion")
	if err != nil {
		return nil, err
	}
	dp, err := intField(data, "depersonalization")
	if err != nil {
		return nil, err
	}
	ra, err := intField(data, "reduction_of_achievements")
	if err != nil {
		return nil, err
	}
	bi, err := floatField(data, "burnout_index")
	if err != nil {
		return nil, err
	}
	recs, err := stringListField(data, "recommendations")
	if err != nil {
		return nil, err
	}

	result := &domain.AssessmentResult{
		EmotionalExhaustion:     ee,
		Depersonalization:       dp,
		ReductionOfAchievements: ra,
		BurnoutIndex:            bi,
		Recommendations:         recs,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func intField(data map[string]any, field string) (int, error) {
	num, ok := data[field].(json.Number)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", field)
	}
	v, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("field %q must be an integer, got %s", field, num)
	}
	return int(v), nil
}

func floatField(data map[string]any, field string) (float64, error) {
	num, ok := data[field].(json.Number)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", field)
	}
	v, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("field %q is not a valid number: %w", field, err)
	}
	return v, nil
}

func stringListField(data map[string]any, field string) ([]string, error) {
	list, ok := data[field].([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list", field)
	}
	if len(list) != domain.RecommendationCount {
		return nil, fmt.Errorf("field %q must contain exactly %d entries, got %d", field, domain.RecommendationCount, len(list))
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("field %q must contain only strings", field)
		}
		out = append(out, s)
	}
	return out, nil
}
