package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const stubSize = 1024

// Stub renders a deterministic gradient derived from the prompt. It keeps the
// whole pipeline operational in local and CI environments where no generation
// credentials exist.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := sha256.Sum256([]byte(req.Prompt))
	top := color.NRGBA{R: seed[0], G: seed[1], B: seed[2], A: 255}
	bottom := color.NRGBA{R: seed[3], G: seed[4], B: seed[5], A: 255}

	img := image.NewNRGBA(image.Rect(0, 0, stubSize, stubSize))
	for y := 0; y < stubSize; y++ {
		c := color.NRGBA{
			R: lerp(top.R, bottom.R, y, stubSize),
			G: lerp(top.G, bottom.G, y, stubSize),
			B: lerp(top.B, bottom.B, y, stubSize),
			A: 255,
		}
		for x := 0; x < stubSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("stub: encode: %w", err)
	}
	return &Asset{Data: buf.Bytes(), Format: "image/png"}, nil
}

func lerp(a, b uint8, step, steps int) uint8 {
	return uint8((int(a)*(steps-step) + int(b)*step) / steps)
}

var _ Generator = (*Stub)(nil)
