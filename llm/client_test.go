package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if req.Model != "deepseek" || req.Stream {
			t.Fatalf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"deepseek","choices":[{"index":0,"message":{"role":"assistant","content":"Как вы спите?"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "deepseek", time.Second)
	text, err := client.Generate(context.Background(), []ChatMessage{
		{Role: "user", Content: "привет"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Как вы спите?" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestClientGenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "deepseek", time.Second)
	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "привет"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "invalid_request_error") {
		t.Fatalf("error missing API detail: %v", err)
	}
}

func TestClientGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"deepseek","choices":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "deepseek", time.Second)
	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "привет"}})
	if err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestClientGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if !req.Stream {
			t.Fatalf("expected streaming request")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"deepseek\",\"choices\":[{\"index\":0,\"delta\":{\"role\":\"assistant\",\"content\":\"Как \"}}]}\n\n")
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"deepseek\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"дела?\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "deepseek", time.Second)
	var got strings.Builder
	err := client.GenerateStream(context.Background(), []ChatMessage{{Role: "user", Content: "привет"}}, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	if got.String() != "Как дела?" {
		t.Fatalf("unexpected streamed text: %q", got.String())
	}
}

func TestClientGenerateStreamCallbackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"deepseek\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"x\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "deepseek", time.Second)
	sentinel := fmt.Errorf("stop")
	err := client.GenerateStream(context.Background(), []ChatMessage{{Role: "user", Content: "привет"}}, func(chunk string) error {
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestClientSetHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"deepseek","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "deepseek", time.Second)
	if _, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "привет"}}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestMockGeneratorModes(t *testing.T) {
	mock := NewMockGenerator()

	question, err := mock.Generate(context.Background(), []ChatMessage{
		{Role: "system", Content: "инструкция интервью"},
		{Role: "user", Content: "привет"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(question, "[MOCK]") {
		t.Fatalf("expected canned question, got %q", question)
	}

	analysis, err := mock.Generate(context.Background(), []ChatMessage{
		{Role: "system", Content: "верни JSON с полем emotional_exhaustion"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(analysis), &parsed); err != nil {
		t.Fatalf("mock analysis is not valid JSON: %v", err)
	}
	if _, ok := parsed["recommendations"]; !ok {
		t.Fatalf("mock analysis missing recommendations: %v", parsed)
	}
}

func TestMockGeneratorStreamReassembles(t *testing.T) {
	mock := NewMockGenerator()
	var got strings.Builder
	err := mock.GenerateStream(context.Background(), []ChatMessage{
		{Role: "system", Content: "инструкция интервью"},
	}, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}

	full, _ := mock.Generate(context.Background(), []ChatMessage{
		{Role: "system", Content: "инструкция интервью"},
	})
	if got.String() != full {
		t.Fatalf("streamed text differs from full text")
	}
}
