package snapshot

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{190, 210, 215, 255})
		}
	}
	return img
}

func TestSaveScaled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "frame")
	got, err := Save(solid(40, 20), path, 0.5)
	require.NoError(t, err)
	assert.Equal(t, path+".png", got)

	img, err := imgio.Open(got)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.InDelta(t, 190, r>>8, 1)
	assert.InDelta(t, 210, g>>8, 1)
	assert.InDelta(t, 215, b>>8, 1)
}

func TestScaleKeepsOnePixel(t *testing.T) {
	img := Scale(solid(3, 3), 0.01)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
	assert.Equal(t, image.Rect(0, 0, 3, 3), Scale(solid(3, 3), 1).Bounds())
}

func TestSaveEmpty(t *testing.T) {
	_, err := Save(image.NewRGBA(image.Rect(0, 0, 0, 0)), filepath.Join(t.TempDir(), "x.png"), 1)
	assert.ErrorIs(t, err, ErrEmptyImage)
	_, err = Save(nil, "", 1)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath(time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC))
	assert.Equal(t, filepath.Join("screenshots", "cityview-20240309-080706.png"), p)
}
