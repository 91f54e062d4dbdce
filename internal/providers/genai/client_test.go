package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateImageInlineData(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("unexpected api key %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{
						"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(payload),
						},
					}},
				},
			}},
		})
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	asset, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "a beach"})
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if string(asset.Data) != string(payload) {
		t.Fatalf("inline data mismatch: %v", asset.Data)
	}
	if asset.Format != "image/png" {
		t.Fatalf("format mismatch: %q", asset.Format)
	}
}

func TestGenerateImageFileLocator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{
						"fileData": map[string]any{
							"mimeType": "image/png",
							"fileUri":  "https://files.example.com/abc.png",
						},
					}},
				},
			}},
		})
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	asset, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "a fjord"})
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if len(asset.Data) != 0 {
		t.Fatalf("expected locator-only asset, got %d inline bytes", len(asset.Data))
	}
	if asset.URL != "https://files.example.com/abc.png" {
		t.Fatalf("locator mismatch: %q", asset.URL)
	}
}

func TestGenerateImageSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 403, "message": "quota exhausted"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "anything"}); err == nil {
		t.Fatal("expected error from API failure")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
