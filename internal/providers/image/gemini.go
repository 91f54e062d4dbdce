package image

import (
	"context"

	"avatarbot/internal/providers/genai"
)

// GeminiGenerator adapts the genai client to the Generator port.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	asset, err := g.client.GenerateImage(ctx, genai.ImageRequest{
		Prompt:    req.Prompt,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &Asset{
		Data:   asset.Data,
		URL:    asset.URL,
		Format: asset.Format,
	}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
