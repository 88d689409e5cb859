package conversion

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultThumbnailSize is the longest edge of a thumbnail in pixels.
const DefaultThumbnailSize = 320

// ThumbnailContentType is the format every thumbnail is encoded in.
const ThumbnailContentType = "image/jpeg"

// MaxSourcePixels caps the declared dimensions of an image before it is decoded.
const MaxSourcePixels = 100_000_000

var ErrImageTooLarge = errors.New("image dimensions exceed the decode limit")

// GenerateThumbnail decodes an image, honours its EXIF orientation, and returns a
// JPEG no larger than maxSize on either edge. Smaller images are not enlarged.
func GenerateThumbnail(data []byte, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid thumbnail size %d", maxSize)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(src, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
