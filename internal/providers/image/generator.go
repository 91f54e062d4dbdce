// Package image defines the text-to-image provider port and its
// implementations.
package image

import "context"

// GenerateRequest asks a provider for one square image.
type GenerateRequest struct {
	Prompt    string
	RequestID string
}

// Asset is the provider's answer: inline bytes, or a URL the caller must
// fetch.
type Asset struct {
	Data   []byte
	URL    string
	Format string
}

// Generator produces a single square image for a prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}
