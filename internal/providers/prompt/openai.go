package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const openAIDefaultTimeout = 15 * time.Second

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Fallback     Enhancer
}

// OpenAIEnhancer rewrites destination prompts through the chat completions
// endpoint.
type OpenAIEnhancer struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
	fallback     Enhancer
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIEnhancer(opts OpenAIOptions) (*OpenAIEnhancer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIEnhancer{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		fallback:     opts.Fallback,
	}, nil
}

func (o *OpenAIEnhancer) Enhance(ctx context.Context, location string) (string, error) {
	payload := openAIChatRequest{
		Model:       o.model,
		Temperature: 0.7,
		MaxTokens:   200,
		Messages: []openAIMessage{
			{Role: "system", Content: "You write prompts for a text-to-image model and respond with the prompt only."},
			{Role: "user", Content: buildRewriteInstruction(location)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return o.useFallback(ctx, location, err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return o.useFallback(ctx, location, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return o.useFallback(ctx, location, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return o.useFallback(ctx, location, fmt.Errorf("openai status %d", resp.StatusCode))
	}

	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return o.useFallback(ctx, location, err)
	}
	if len(out.Choices) == 0 {
		return o.useFallback(ctx, location, errors.New("openai returned no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return o.useFallback(ctx, location, errors.New("openai returned empty content"))
	}
	return clampPrompt(text), nil
}

func (o *OpenAIEnhancer) useFallback(ctx context.Context, location string, cause error) (string, error) {
	if o.fallback == nil {
		return "", fmt.Errorf("openai enhance: %w", cause)
	}
	return o.fallback.Enhance(ctx, location)
}

var _ Enhancer = (*OpenAIEnhancer)(nil)
