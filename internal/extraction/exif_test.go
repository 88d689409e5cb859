package extraction

import (
	"bytes"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-map/internal/extraction/exiftest"
)

func TestConvertToDegrees(t *testing.T) {
	tests := []struct {
		name  string
		value [3]float64
		ref   string
		want  float64
	}{
		{"north", [3]float64{40, 26, 46}, "N", 40.446111},
		{"west", [3]float64{79, 58, 56}, "W", -79.982222},
		{"south", [3]float64{33, 52, 4}, "S", -33.867778},
		{"east", [3]float64{151, 12, 26}, "E", 151.207222},
		{"zero", [3]float64{0, 0, 0}, "N", 0},
		{"missing ref keeps sign", [3]float64{10, 30, 0}, "", 10.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertToDegrees(tt.value, tt.ref), 1e-6)
		})
	}
}

func TestConvertToDegreesMatchesFormula(t *testing.T) {
	for d := 0.0; d <= 180; d += 17 {
		for m := 0.0; m < 60; m += 7 {
			for s := 0.0; s < 60; s += 11.5 {
				want := d + m/60 + s/3600
				assert.InDelta(t, want, ConvertToDegrees([3]float64{d, m, s}, "N"), 1e-6)
				assert.InDelta(t, want, ConvertToDegrees([3]float64{d, m, s}, "E"), 1e-6)
				assert.InDelta(t, -want, ConvertToDegrees([3]float64{d, m, s}, "S"), 1e-6)
				assert.InDelta(t, -want, ConvertToDegrees([3]float64{d, m, s}, "W"), 1e-6)
			}
		}
	}
}

func TestParseCaptureTime(t *testing.T) {
	got := ParseCaptureTime("2023:07:15 10:30:00")
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2023, 7, 15, 10, 30, 0, 0, time.UTC)))

	for _, bad := range []string{"15/07/2023", "", "2023-07-15 10:30:00", "2023:07:15 10:30", "2023:13:15 10:30:00"} {
		assert.Nil(t, ParseCaptureTime(bad), bad)
	}
}

func TestExtractMetadataFull(t *testing.T) {
	data := exiftest.JPEG(exiftest.TIFF(
		exiftest.DateTaken("2023:07:15 10:30:00"),
		exiftest.GPS("N", [3]uint32{40, 26, 46}, "W", [3]uint32{79, 58, 56}),
	))

	meta := ExtractMetadata(data)

	require.NotNil(t, meta.CaptureTime)
	assert.True(t, meta.CaptureTime.Equal(time.Date(2023, 7, 15, 10, 30, 0, 0, time.UTC)))
	require.NotNil(t, meta.Coordinates)
	assert.InDelta(t, 40.446111, meta.Coordinates.Latitude, 1e-6)
	assert.InDelta(t, -79.982222, meta.Coordinates.Longitude, 1e-6)
}

func TestExtractMetadataNoContainer(t *testing.T) {
	for name, data := range map[string][]byte{
		"bare jpeg": {0xFF, 0xD8, 0xFF, 0xD9},
		"empty":     nil,
		"garbage":   []byte("definitely not an image"),
	} {
		t.Run(name, func(t *testing.T) {
			meta := ExtractMetadata(data)
			assert.Nil(t, meta.CaptureTime)
			assert.Nil(t, meta.Coordinates)
		})
	}
}

func TestExtractMetadataLatitudeOnly(t *testing.T) {
	data := exiftest.JPEG(exiftest.TIFF(
		exiftest.DateTaken("2023:07:15 10:30:00"),
		[]exiftest.Entry{
			exiftest.ASCII(exiftest.TagGPSLatitudeRef, "N"),
			exiftest.DMS(exiftest.TagGPSLatitude, 40, 26, 46),
		},
	))

	meta := ExtractMetadata(data)

	assert.Nil(t, meta.Coordinates)
	assert.NotNil(t, meta.CaptureTime)
}

func TestExtractMetadataMalformedDate(t *testing.T) {
	data := exiftest.JPEG(exiftest.TIFF(
		exiftest.DateTaken("15/07/2023"),
		exiftest.GPS("S", [3]uint32{33, 52, 4}, "E", [3]uint32{151, 12, 26}),
	))

	meta := ExtractMetadata(data)

	assert.Nil(t, meta.CaptureTime)
	require.NotNil(t, meta.Coordinates)
	assert.InDelta(t, -33.867778, meta.Coordinates.Latitude, 1e-6)
	assert.InDelta(t, 151.207222, meta.Coordinates.Longitude, 1e-6)
}

func TestExtractMetadataZeroTripleIsPresent(t *testing.T) {
	data := exiftest.JPEG(exiftest.TIFF(
		nil,
		exiftest.GPS("N", [3]uint32{0, 0, 0}, "E", [3]uint32{0, 0, 0}),
	))

	meta := ExtractMetadata(data)

	require.NotNil(t, meta.Coordinates)
	assert.Equal(t, 0.0, meta.Coordinates.Latitude)
	assert.Equal(t, 0.0, meta.Coordinates.Longitude)
	assert.Nil(t, meta.CaptureTime)
}

func TestIsJPEG(t *testing.T) {
	assert.True(t, IsJPEG("a.jpg"))
	assert.True(t, IsJPEG("dir/B.JPEG"))
	assert.False(t, IsJPEG("a.png"))
	assert.False(t, IsJPEG("jpg"))
}

func TestExtractMetadataFromEncodedImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(16, 16, color.White), imaging.JPEG))
	data := exiftest.WithExif(buf.Bytes(), exiftest.TIFF(
		exiftest.DateTaken("2021:02:03 04:05:06"),
		exiftest.GPS("N", [3]uint32{52, 13, 47}, "E", [3]uint32{21, 0, 44}),
	))

	meta := ExtractMetadata(data)

	require.NotNil(t, meta.Coordinates)
	assert.InDelta(t, 52.229722, meta.Coordinates.Latitude, 1e-6)
	assert.InDelta(t, 21.012222, meta.Coordinates.Longitude, 1e-6)
	require.NotNil(t, meta.CaptureTime)
	assert.Equal(t, 2021, meta.CaptureTime.Year())
}
