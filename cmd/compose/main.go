// Command compose runs the avatar pipeline against local files: it
// normalizes a photo, layers a mode's overlay, optionally burns a date
// caption, and writes the encoded result. Useful for checking overlay
// artwork without a bot token.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"avatarbot/internal/domain"
	"avatarbot/internal/flow"
	"avatarbot/internal/overlay"
	"avatarbot/internal/render"

	"golang.org/x/image/font"
)

func main() {
	var (
		photoFlag    string
		modeFlag     string
		dateFlag     string
		overlaysFlag string
		fontFlag     string
		sizeFlag     float64
		outFlag      string
	)
	flag.StringVar(&photoFlag, "photo", "", "path to the input photo")
	flag.StringVar(&modeFlag, "mode", string(domain.ModeDayOff), "avatar mode")
	flag.StringVar(&dateFlag, "date", "", "DD.MM date for dated modes")
	flag.StringVar(&overlaysFlag, "overlays", "overlays", "overlay asset directory")
	flag.StringVar(&fontFlag, "font", "fonts/YangoText_Bd.ttf", "caption font file")
	flag.Float64Var(&sizeFlag, "size", 120, "caption font size in points")
	flag.StringVar(&outFlag, "out", "avatar.png", "output file")
	flag.Parse()

	if photoFlag == "" {
		fmt.Fprintln(os.Stderr, "-photo is required")
		os.Exit(1)
	}

	registry := domain.NewRegistry(domain.RegistryOptions{})
	spec, ok := registry.Resolve(domain.Mode(modeFlag))
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", modeFlag)
		os.Exit(1)
	}

	photo, err := os.ReadFile(photoFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read photo: %v\n", err)
		os.Exit(1)
	}
	base, err := render.Normalize(photo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "normalize photo: %v\n", err)
		os.Exit(1)
	}

	layer, err := overlay.NewCatalog(overlaysFlag).Load(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load overlay: %v\n", err)
		os.Exit(1)
	}
	combined := render.Composite(base, layer)

	if spec.CaptionTmpl != "" && dateFlag != "" {
		date, err := flow.ParseDayMonth(dateFlag, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid date: %v\n", err)
			os.Exit(1)
		}
		render.DrawCenteredText(combined, fmt.Sprintf(spec.CaptionTmpl, flow.FormatDayMonth(date)), loadFace(fontFlag, sizeFlag))
	}

	encoded, err := render.Encode(combined)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outFlag, encoded, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", outFlag)
}

func loadFace(path string, size float64) font.Face {
	face, err := render.LoadFace(path, size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "font unavailable (%v), using fallback\n", err)
		return render.FallbackFace()
	}
	return face
}
