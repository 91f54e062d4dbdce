package image

import (
	"bytes"
	"context"
	stdimage "image"
	"testing"

	_ "image/png"
)

func TestStubIsDeterministic(t *testing.T) {
	stub := NewStub()
	ctx := context.Background()

	first, err := stub.Generate(ctx, GenerateRequest{Prompt: "Kyoto in autumn"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := stub.Generate(ctx, GenerateRequest{Prompt: "Kyoto in autumn"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatal("same prompt produced different images")
	}

	other, err := stub.Generate(ctx, GenerateRequest{Prompt: "Kyoto in winter"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if bytes.Equal(first.Data, other.Data) {
		t.Fatal("different prompts produced identical images")
	}
}

func TestStubProducesSquarePNG(t *testing.T) {
	stub := NewStub()

	asset, err := stub.Generate(context.Background(), GenerateRequest{Prompt: "anywhere"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(asset.Data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if format != "png" {
		t.Fatalf("unexpected format %q", format)
	}
	if cfg.Width != cfg.Height {
		t.Fatalf("image is not square: %dx%d", cfg.Width, cfg.Height)
	}
}
