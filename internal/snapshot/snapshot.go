// Package snapshot saves captured frames as PNG files.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// Dir is where screenshots go when no path is given.
const Dir = "screenshots"

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("empty image")

// DefaultPath returns a timestamped path under Dir.
func DefaultPath(now time.Time) string {
	return filepath.Join(Dir, "cityview-"+now.Format("20060102-150405")+".png")
}

// Scale resizes img by factor with linear filtering. Each side stays at least one pixel.
func Scale(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	if factor == 1 || factor <= 0 {
		return clone.AsRGBA(img)
	}
	w := max(int(float64(b.Dx())*factor+0.5), 1)
	h := max(int(float64(b.Dy())*factor+0.5), 1)
	return transform.Resize(img, w, h, transform.Linear)
}

// Save writes img scaled by factor as PNG. An empty path uses DefaultPath;
// a missing .png extension is added. It returns the written path.
func Save(img image.Image, path string, factor float64) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyImage
	}
	if path == "" {
		path = DefaultPath(time.Now())
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := imgio.Save(path, Scale(img, factor), imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
