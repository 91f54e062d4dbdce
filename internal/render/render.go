// Package render implements the deterministic image pipeline: square crop to
// the canonical resolution, alpha compositing of the overlay, centered caption
// drawing, and PNG encoding. All operations are pure functions of their
// inputs.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"avatarbot/internal/domain"

	_ "image/gif"
	_ "image/jpeg"
)

// CanvasSize is the canonical square resolution of every avatar.
const CanvasSize = 1280

// captionFraction positions the caption baseline region: the caption top sits
// at this fraction of the image height.
const captionFraction = 0.78

// shadowOffset shifts the black copy of the caption before the white one is
// drawn on top of it.
const shadowOffset = 2

// Normalize decodes photo bytes, center-crops to the largest square that fits
// the shorter dimension and resizes the result to CanvasSize. Unreadable
// bytes yield domain.ErrDecode.
func Normalize(data []byte) (*image.NRGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return Canonical(src), nil
}

// Canonical center-crops an already decoded image and scales it to the
// canonical square.
func Canonical(src image.Image) *image.NRGBA {
	return Resize(SquareCrop(src), CanvasSize, CanvasSize)
}

// SquareCrop returns the centered largest square of src. Offsets use integer
// division, so for odd differences the extra pixel goes to the bottom/right,
// matching floor semantics on both edges.
func SquareCrop(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	m := w
	if h < w {
		m = h
	}
	crop := image.Rect(
		b.Min.X+(w-m)/2,
		b.Min.Y+(h-m)/2,
		b.Min.X+(w+m)/2,
		b.Min.Y+(h+m)/2,
	)

	dst := image.NewNRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, crop.Min, xdraw.Src)
	return dst
}

// Resize scales src to exactly w by h using Catmull-Rom interpolation.
func Resize(src image.Image, w, h int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		if nrgba, ok := src.(*image.NRGBA); ok {
			return nrgba
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// Composite draws overlay on top of base using standard alpha compositing.
// The overlay is resized to the base's dimensions first, so mismatched assets
// still cover the full canvas. The inputs are not modified.
func Composite(base *image.NRGBA, overlay image.Image) *image.NRGBA {
	bounds := base.Bounds()
	combined := image.NewNRGBA(bounds)
	xdraw.Draw(combined, bounds, base, bounds.Min, xdraw.Src)

	layer := Resize(overlay, bounds.Dx(), bounds.Dy())
	xdraw.Draw(combined, bounds, layer, layer.Bounds().Min, xdraw.Over)
	return combined
}

// DrawCenteredText burns text into img: horizontally centered, top of the
// glyphs at captionFraction of the image height. The text is drawn twice,
// black offset by (+2,+2) then white at the exact position, so it stays
// legible against arbitrary backgrounds. img is modified in place.
func DrawCenteredText(img *image.NRGBA, text string, face font.Face) {
	if text == "" {
		return
	}

	drawer := &font.Drawer{Dst: img, Face: face}
	width := drawer.MeasureString(text).Round()

	bounds := img.Bounds()
	x := bounds.Min.X + (bounds.Dx()-width)/2
	top := bounds.Min.Y + int(float64(bounds.Dy())*captionFraction)
	baseline := top + face.Metrics().Ascent.Round()

	drawer.Src = image.NewUniform(color.Black)
	drawer.Dot = fixed.P(x+shadowOffset, baseline+shadowOffset)
	drawer.DrawString(text)

	drawer.Src = image.NewUniform(color.White)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

// Encode serializes the image as PNG: lossless and alpha-capable, suitable
// for document delivery.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
