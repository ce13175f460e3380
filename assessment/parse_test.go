package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnoutlab/orchestrator/domain"
)

func validResult() *domain.AssessmentResult {
	return &domain.AssessmentResult{
		EmotionalExhaustion:     16,
		Depersonalization:       6,
		ReductionOfAchievements: 31,
		BurnoutIndex:            0.4,
		Recommendations: []string{
			"Делайте короткие перерывы.",
			"Практикуйте осознанное общение.",
			"Обсудите ротацию задач.",
			"Разграничьте работу и отдых.",
		},
	}
}

func TestParseRoundTrip(t *testing.T) {
	encoded, err := validResult().ToJSON()
	require.NoError(t, err)

	got, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, validResult(), got)
}

func TestParseFromProseWithFences(t *testing.T) {
	encoded, err := validResult().ToJSON()
	require.NoError(t, err)
	raw := "Вот результат анализа:\n```json\n" + encoded + "\n```\nСпасибо."

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, validResult(), got)
}

func TestParseNoJSON(t *testing.T) {
	_, err := Parse("the model refused to answer in JSON")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseMissingField(t *testing.T) {
	_, err := Parse(`{"emotional_exhaustion": 10, "depersonalization": 5, "reduction_of_achievements": 20, "burnout_index": 0.3}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommendations")
}

func TestParseNonIntegralScore(t *testing.T) {
	_, err := Parse(`{"emotional_exhaustion": 10.5, "depersonalization": 5, "reduction_of_achievements": 20, "burnout_index": 0.3, "recommendations": ["a","b","c","d"]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emotional_exhaustion")
}

func TestParseOutOfRange(t *testing.T) {
	cases := map[string]string{
		"emotional_exhaustion":      `{"emotional_exhaustion": 55, "depersonalization": 5, "reduction_of_achievements": 20, "burnout_index": 0.3, "recommendations": ["a","b","c","d"]}`,
		"depersonalization":         `{"emotional_exhaustion": 10, "depersonalization": 31, "reduction_of_achievements": 20, "burnout_index": 0.3, "recommendations": ["a","b","c","d"]}`,
		"reduction_of_achievements": `{"emotional_exhaustion": 10, "depersonalization": 5, "reduction_of_achievements": 49, "burnout_index": 0.3, "recommendations": ["a","b","c","d"]}`,
		"burnout_index":             `{"emotional_exhaustion": 10, "depersonalization": 5, "reduction_of_achievements": 20, "burnout_index": 1.2, "recommendations": ["a","b","c","d"]}`,
	}
	for field, raw := range cases {
		_, err := Parse(raw)
		require.Error(t, err, field)
		assert.Contains(t, err.Error(), field)
	}
}

func TestParseWrongRecommendationCount(t *testing.T) {
	_, err := Parse(`{"emotional_exhaustion": 10, "depersonalization": 5, "reduction_of_achievements": 20, "burnout_index": 0.3, "recommendations": ["a","b","c"]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommendations")
}

func TestParseNonStringRecommendation(t *testing.T) {
	_, err := Parse(`{"emotional_exhaustion": 10, "depersonalization": 5, "reduction_of_achievements": 20, "burnout_index": 0.3, "recommendations": ["a","b","c",4]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommendations")
}
