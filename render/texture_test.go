package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRGBAKeepsPackedImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, img, ToRGBA(img))
}

func TestToRGBAConvertsAndRebases(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	src.Set(10, 20, color.NRGBA{R: 255, A: 255})
	src.Set(12, 21, color.NRGBA{B: 255, A: 255})

	dst := ToRGBA(src)
	require.Equal(t, image.Rect(0, 0, 3, 2), dst.Bounds())
	assert.Len(t, dst.Pix, 3*2*4)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, dst.RGBAAt(2, 1))
}

func TestFitRGBA(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 8, 8))
	assert.Same(t, small, FitRGBA(small, 16))

	wide := image.NewRGBA(image.Rect(0, 0, 400, 100))
	assert.Equal(t, image.Rect(0, 0, 200, 50), FitRGBA(wide, 200).Bounds())

	tall := image.NewGray(image.Rect(0, 0, 10, 1000))
	assert.Equal(t, image.Rect(0, 0, 1, 100), FitRGBA(tall, 100).Bounds())
}

func TestCheckerboard(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}

	img := Checkerboard(8, 4, white, black)
	require.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assert.Equal(t, white, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(1, 1))
	assert.Equal(t, black, img.RGBAAt(2, 0))
	assert.Equal(t, black, img.RGBAAt(0, 2))
	assert.Equal(t, white, img.RGBAAt(2, 2))
}

func TestSamplerInfo(t *testing.T) {
	info := SamplerInfo(10, 16)
	assert.True(t, info.AnisotropyEnable)
	assert.Equal(t, float32(16), info.MaxAnisotropy)
	assert.Equal(t, float32(10), info.MaxLod)

	info = SamplerInfo(1, 0)
	assert.False(t, info.AnisotropyEnable)
}

func TestNewTextureRejectsEmptyImage(t *testing.T) {
	// The size check runs before any device call.
	d := &Device{}
	_, err := d.NewTexture(image.NewRGBA(image.Rect(0, 0, 0, 16)), true)
	assert.True(t, errors.Is(err, ErrEmptyImage))
}
