package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// labelNames maps the classification model's English labels to the Russian
// labels used in analysis annotations.
var labelNames = map[string]string{
	"neutral":    "нейтрально",
	"joy":        "радость",
	"sadness":    "грусть",
	"anger":      "злость",
	"enthusiasm": "энтузиазм",
	"surprise":   "удивление",
	"disgust":    "отвращение",
	"fear":       "страх",
	"guilt":      "вина",
	"shame":      "стыд",
}

// HTTPClassifier calls a hosted sequence-classification inference endpoint.
type HTTPClassifier struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClassifier creates a classifier client for the given inference
// endpoint.
func NewHTTPClassifier(endpoint, apiKey string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure HTTPClassifier implements Classifier.
var _ Classifier = (*HTTPClassifier)(nil)

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score sends the text to the inference endpoint and returns the ranking
// with localized labels, highest confidence first.
func (c *HTTPClassifier) Score(ctx context.Context, text string) ([]Score, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	// The endpoint returns one ranking per input: [[{label, score}, ...]]
	var rankings [][]inferenceScore
	if err := json.Unmarshal(respBody, &rankings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rankings) == 0 {
		return nil, fmt.Errorf("classifier returned no ranking")
	}

	scores := make([]Score, 0, len(rankings[0]))
	for _, r := range rankings[0] {
		label := r.Label
		if localized, ok := labelNames[label]; ok {
			label = localized
		}
		scores = append(scores, Score{Label: label, Confidence: r.Score})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})
	return scores, nil
}
