package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const geminiDefaultTimeout = 15 * time.Second

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Enhancer
}

// GeminiEnhancer rewrites destination prompts through the Gemini
// generateContent endpoint. When a Fallback is configured, any failure
// degrades to it; otherwise the error surfaces to the caller.
type GeminiEnhancer struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback Enhancer
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	CandidateCount  int     `json:"candidateCount,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiEnhancer(opts GeminiOptions) (*GeminiEnhancer, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiEnhancer{
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  baseURL,
		client:   client,
		fallback: opts.Fallback,
	}, nil
}

func (g *GeminiEnhancer) Enhance(ctx context.Context, location string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{{
				Text: buildRewriteInstruction(location),
			}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.7,
			CandidateCount:  1,
			MaxOutputTokens: 200,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.useFallback(ctx, location, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return g.useFallback(ctx, location, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.useFallback(ctx, location, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return g.useFallback(ctx, location, fmt.Errorf("gemini status %d", resp.StatusCode))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return g.useFallback(ctx, location, err)
	}
	text := g.extractText(out)
	if text == "" {
		return g.useFallback(ctx, location, errors.New("gemini returned no text"))
	}
	return clampPrompt(text), nil
}

func (g *GeminiEnhancer) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func (g *GeminiEnhancer) extractText(out geminiResponse) string {
	for _, candidate := range out.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func (g *GeminiEnhancer) useFallback(ctx context.Context, location string, cause error) (string, error) {
	if g.fallback == nil {
		return "", fmt.Errorf("gemini enhance: %w", cause)
	}
	return g.fallback.Enhance(ctx, location)
}

var _ Enhancer = (*GeminiEnhancer)(nil)
