package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvSurveyMode is the environment variable name for mode selection.
	EnvSurveyMode = "SURVEY_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewGenerator creates a generator based on the SURVEY_MODE environment
// variable. SURVEY_MODE=MOCK returns the canned mock; anything else returns
// the real HTTP client.
func NewGenerator(baseURL, apiKey, model string, timeout time.Duration) Generator {
	if os.Getenv(EnvSurveyMode) == ModeMock {
		log.Println("SURVEY_MODE=MOCK detected, using mock LLM generator")
		return NewMockGenerator()
	}
	return NewClient(baseURL, apiKey, model, timeout)
}
