package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressScalesDownToJPEG(t *testing.T) {
	out, err := Compress(pngFixture(t, 400, 200), 100, 70)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestCompressKeepsSmallImages(t *testing.T) {
	out, err := Compress(pngFixture(t, 30, 60), 100, 0)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := Compress([]byte("not an image"), 0, 0)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	w, h := fit(3000, 1000, 1500)
	assert.Equal(t, 1500, w)
	assert.Equal(t, 500, h)

	w, h = fit(1000, 3000, 1500)
	assert.Equal(t, 500, w)
	assert.Equal(t, 1500, h)
}
