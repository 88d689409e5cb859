package conversion

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) image.Point {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Size()
}

func TestGenerateThumbnailKeepsAspectRatio(t *testing.T) {
	thumb, err := GenerateThumbnail(encodeJPEG(t, 800, 400), 200)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(200, 100), decodeSize(t, thumb))

	thumb, err = GenerateThumbnail(encodeJPEG(t, 300, 600), 200)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 200), decodeSize(t, thumb))
}

func TestGenerateThumbnailDoesNotEnlarge(t *testing.T) {
	thumb, err := GenerateThumbnail(encodeJPEG(t, 50, 40), 200)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(50, 40), decodeSize(t, thumb))
}

func TestGenerateThumbnailRejectsGarbage(t *testing.T) {
	_, err := GenerateThumbnail([]byte("not an image"), 200)
	assert.Error(t, err)

	_, err = GenerateThumbnail(encodeJPEG(t, 10, 10), 0)
	assert.Error(t, err)
}

// withDimensions rewrites the frame header of a baseline JPEG to declare w x h.
func withDimensions(t *testing.T, data []byte, w, h uint16) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	i := bytes.Index(out, []byte{0xFF, 0xC0})
	require.NotEqual(t, -1, i, "no SOF0 marker")
	binary.BigEndian.PutUint16(out[i+5:], h)
	binary.BigEndian.PutUint16(out[i+7:], w)
	return out
}

func TestGenerateThumbnailRejectsOversizedDimensions(t *testing.T) {
	huge := withDimensions(t, encodeJPEG(t, 16, 16), 60000, 60000)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(huge))
	require.NoError(t, err)
	require.Equal(t, 60000, cfg.Width)

	_, err = GenerateThumbnail(huge, 200)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
