package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashboi005/insight-ai/pkg/config"
)

func newTestClient(baseURL string) *GeminiClient {
	return NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: baseURL,
	})
}

func TestGenerate_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": `{"summary":"ok"}`}},
				}},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	text, err := client.Generate(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != `{"summary":"ok"}` {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGenerate_NoAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	client := NewGeminiClient(&config.GeminiConfig{BaseURL: "http://localhost:0"})
	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerate_BadRequestNotRetried(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestGenerate_RetriesTransientFailure(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "recovered"}},
				}},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	text, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate failed after retry: %v", err)
	}
	if text != "recovered" {
		t.Fatalf("unexpected text %q", text)
	}
	if calls < 2 {
		t.Fatalf("expected retry, got %d calls", calls)
	}
}
