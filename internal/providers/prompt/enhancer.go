// Package prompt turns a user-supplied destination into a prompt for the
// image model, optionally rewriting it through a text-completion provider to
// enrich visual detail.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxPromptLength bounds the rewritten prompt; anything longer is truncated
// rather than rejected.
const maxPromptLength = 600

// Enhancer rewrites a destination string into a single detailed visual
// prompt for the image model.
type Enhancer interface {
	Enhance(ctx context.Context, location string) (string, error)
}

// StaticEnhancer produces a deterministic scenic prompt without any network
// call. It doubles as the fallback when a model-backed enhancer fails.
type StaticEnhancer struct{}

func NewStaticEnhancer() *StaticEnhancer {
	return &StaticEnhancer{}
}

func (s *StaticEnhancer) Enhance(ctx context.Context, location string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return "", errors.New("prompt: location is empty")
	}
	titled := cases.Title(language.Und).String(location)
	return fmt.Sprintf(
		"Wide-angle travel photograph of %s, golden hour light, vivid colors, ultra sharp detail, high dynamic range, postcard composition, no people in frame",
		titled,
	), nil
}

var _ Enhancer = (*StaticEnhancer)(nil)

// buildRewriteInstruction is the shared instruction for model-backed
// enhancers. The rewriter is told to maximize visual and quality detail for
// the downstream image model and to answer with the prompt only.
func buildRewriteInstruction(location string) string {
	sb := &strings.Builder{}
	sb.WriteString("You write prompts for a text-to-image model. ")
	fmt.Fprintf(sb, "Rewrite the destination %q into exactly one richly detailed prompt describing a beautiful scenic view of that place. ", location)
	sb.WriteString("Maximize visual and image-quality detail: lighting, weather, landmarks, colors, lens. ")
	sb.WriteString("Do not include people or text in the scene. Respond with the prompt only, no preamble.")
	return sb.String()
}

// clampPrompt trims whitespace and enforces the bounded output length.
func clampPrompt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > maxPromptLength {
		text = text[:maxPromptLength]
	}
	return text
}
