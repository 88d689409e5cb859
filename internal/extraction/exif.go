// Package extraction reads photo metadata and unpacks uploaded archives.
package extraction

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"photo-map/internal/models"
)

// ExifDateLayout is the fixed format of EXIF DateTimeOriginal values.
const ExifDateLayout = "2006:01:02 15:04:05"

// Metadata is what could be recovered from an image. Each field is independently present or nil.
type Metadata struct {
	CaptureTime *time.Time          `json:"capture_time,omitempty"`
	Coordinates *models.Coordinates `json:"coordinates,omitempty"`
}

func init() {
	// Vendor maker notes otherwise make some camera files fail to decode.
	exif.RegisterParsers(mknote.All...)
}

// ExtractMetadata reads the capture time and GPS position embedded in a JPEG.
// It never fails: a missing or malformed EXIF block yields an empty Metadata.
func ExtractMetadata(data []byte) (out Metadata) {
	// goexif can panic on truncated IFDs.
	defer func() {
		if r := recover(); r != nil {
			out = Metadata{}
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		return out
	}

	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, err := tag.StringVal(); err == nil {
			out.CaptureTime = ParseCaptureTime(s)
		}
	}

	lat, okLat := gpsCoordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	lon, okLon := gpsCoordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if okLat && okLon {
		out.Coordinates = &models.Coordinates{Latitude: lat, Longitude: lon}
	}

	return out
}

// ParseCaptureTime parses an EXIF date string. Anything but the exact layout yields nil.
func ParseCaptureTime(s string) *time.Time {
	t, err := time.ParseInLocation(ExifDateLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ConvertToDegrees turns a (degrees, minutes, seconds) triple into signed decimal degrees.
// South and west references flip the sign.
func ConvertToDegrees(value [3]float64, ref string) float64 {
	degrees := value[0] + value[1]/60 + value[2]/3600
	if ref == "S" || ref == "W" {
		degrees = -degrees
	}
	return degrees
}

func gpsCoordinate(x *exif.Exif, field, refField exif.FieldName) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil || tag.Count < 3 {
		return 0, false
	}

	var dms [3]float64
	for i := range dms {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return 0, false
		}
		dms[i] = float64(num) / float64(den)
	}

	ref := ""
	if rt, err := x.Get(refField); err == nil {
		if s, err := rt.StringVal(); err == nil {
			ref = s
		}
	}

	return ConvertToDegrees(dms, ref), true
}
