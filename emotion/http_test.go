package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClassifierScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if req.Inputs != "я очень устал" {
			t.Fatalf("unexpected inputs: %q", req.Inputs)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[[{"label":"joy","score":0.1},{"label":"sadness","score":0.7},{"label":"neutral","score":0.2}]]`)
	}))
	defer server.Close()

	classifier := NewHTTPClassifier(server.URL, "", time.Second)
	scores, err := classifier.Score(context.Background(), "я очень устал")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[0].Label != "грусть" || scores[0].Confidence != 0.7 {
		t.Fatalf("expected localized top score, got %+v", scores[0])
	}
	if scores[1].Label != "нейтрально" || scores[2].Label != "радость" {
		t.Fatalf("ranking not sorted by confidence: %+v", scores)
	}
}

func TestHTTPClassifierUnknownLabelPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[[{"label":"LABEL_42","score":1.0}]]`)
	}))
	defer server.Close()

	classifier := NewHTTPClassifier(server.URL, "", time.Second)
	scores, err := classifier.Score(context.Background(), "текст")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if scores[0].Label != "LABEL_42" {
		t.Fatalf("unmapped label rewritten: %+v", scores[0])
	}
}

func TestHTTPClassifierError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "model loading")
	}))
	defer server.Close()

	classifier := NewHTTPClassifier(server.URL, "", time.Second)
	if _, err := classifier.Score(context.Background(), "текст"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHTTPClassifierEmptyRanking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	classifier := NewHTTPClassifier(server.URL, "", time.Second)
	if _, err := classifier.Score(context.Background(), "текст"); err == nil {
		t.Fatalf("expected error for empty ranking")
	}
}

func TestHTTPClassifierAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[[{"label":"neutral","score":1.0}]]`)
	}))
	defer server.Close()

	classifier := NewHTTPClassifier(server.URL, "token", time.Second)
	if _, err := classifier.Score(context.Background(), "текст"); err != nil {
		t.Fatalf("Score failed: %v", err)
	}
}

func TestTop(t *testing.T) {
	scores := []Score{
		{Label: "грусть", Confidence: 0.7},
		{Label: "нейтрально", Confidence: 0.2},
	}
	top, ok := Top(scores)
	if !ok || top.Label != "грусть" {
		t.Fatalf("unexpected top: %+v ok=%v", top, ok)
	}
	if _, ok := Top(nil); ok {
		t.Fatalf("expected no top for empty ranking")
	}
}
