package prompt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticEnhancerTitlesLocation(t *testing.T) {
	enhancer := NewStaticEnhancer()

	got, err := enhancer.Enhance(context.Background(), "tokyo, japan")
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if !strings.Contains(got, "Tokyo, Japan") {
		t.Fatalf("prompt does not title-case the location: %q", got)
	}
}

func TestStaticEnhancerRejectsEmptyLocation(t *testing.T) {
	enhancer := NewStaticEnhancer()

	if _, err := enhancer.Enhance(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty location")
	}
}

func TestGeminiEnhancerParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens == 0 {
			t.Errorf("rewrite output is not bounded: %+v", req.GenerationConfig)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "  Snowy peaks over Reykjavik at dusk, 35mm lens  "}},
				},
			}},
		})
	}))
	defer server.Close()

	enhancer, err := NewGeminiEnhancer(GeminiOptions{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiEnhancer returned error: %v", err)
	}

	got, err := enhancer.Enhance(context.Background(), "Reykjavik, Iceland")
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if got != "Snowy peaks over Reykjavik at dusk, 35mm lens" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestGeminiEnhancerFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	enhancer, err := NewGeminiEnhancer(GeminiOptions{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Fallback: NewStaticEnhancer(),
	})
	if err != nil {
		t.Fatalf("NewGeminiEnhancer returned error: %v", err)
	}

	got, err := enhancer.Enhance(context.Background(), "Lima, Peru")
	if err != nil {
		t.Fatalf("Enhance with fallback returned error: %v", err)
	}
	if !strings.Contains(got, "Lima, Peru") {
		t.Fatalf("fallback prompt missing location: %q", got)
	}
}

func TestGeminiEnhancerErrorsWithoutFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	enhancer, err := NewGeminiEnhancer(GeminiOptions{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiEnhancer returned error: %v", err)
	}

	if _, err := enhancer.Enhance(context.Background(), "Lima, Peru"); err == nil {
		t.Fatal("expected error when no fallback is configured")
	}
}
