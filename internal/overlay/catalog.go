// Package overlay resolves avatar modes to their pre-authored graphic assets.
package overlay

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"avatarbot/internal/domain"

	_ "image/png"
)

// Catalog maps mode specs to overlay files under a fixed directory. Existence
// is checked lazily when an overlay is loaded for composition, not when the
// user selects a mode.
type Catalog struct {
	dir string
}

// NewCatalog creates a catalog rooted at dir.
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Path returns where the spec's overlay is expected on disk.
func (c *Catalog) Path(spec domain.ModeSpec) string {
	return filepath.Join(c.dir, spec.OverlayFile)
}

// Load opens and decodes the overlay for a mode. A missing file yields
// domain.ErrAssetMissing tagged with the mode so the failure notice can name
// it.
func (c *Catalog) Load(spec domain.ModeSpec) (image.Image, error) {
	f, err := os.Open(c.Path(spec))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAssetMissing, spec.Mode)
		}
		return nil, fmt.Errorf("open overlay %s: %w", spec.Mode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode overlay %s: %w", spec.Mode, err)
	}
	return img, nil
}
