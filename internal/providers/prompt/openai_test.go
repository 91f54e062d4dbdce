package prompt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIEnhancerParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var req openAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MaxTokens == 0 {
			t.Error("rewrite output is not bounded")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"content": "Terraced rice fields near Ubud in morning mist"},
			}},
		})
	}))
	defer server.Close()

	enhancer, err := NewOpenAIEnhancer(OpenAIOptions{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAIEnhancer returned error: %v", err)
	}

	got, err := enhancer.Enhance(context.Background(), "Ubud, Indonesia")
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if got != "Terraced rice fields near Ubud in morning mist" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestOpenAIEnhancerFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	enhancer, err := NewOpenAIEnhancer(OpenAIOptions{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Fallback: NewStaticEnhancer(),
	})
	if err != nil {
		t.Fatalf("NewOpenAIEnhancer returned error: %v", err)
	}

	got, err := enhancer.Enhance(context.Background(), "Oslo, Norway")
	if err != nil {
		t.Fatalf("Enhance with fallback returned error: %v", err)
	}
	if !strings.Contains(got, "Oslo, Norway") {
		t.Fatalf("fallback prompt missing location: %q", got)
	}
}

func TestOpenAIEnhancerRequiresKey(t *testing.T) {
	if _, err := NewOpenAIEnhancer(OpenAIOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
