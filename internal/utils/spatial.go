package utils

import "math"

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance between two points in meters.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// BoundingBox is a lat/lng rectangle used as an index-friendly prefilter for radius searches.
// When MinLng > MaxLng the box crosses the antimeridian and covers longitudes
// >= MinLng or <= MaxLng. AllLongitudes is set when the circle reaches a pole.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	AllLongitudes  bool
}

// WrapsAntimeridian reports whether the longitude span crosses ±180.
func (b BoundingBox) WrapsAntimeridian() bool {
	return !b.AllLongitudes && b.MinLng > b.MaxLng
}

// ContainsLongitude reports whether lng falls inside the box's longitude span.
func (b BoundingBox) ContainsLongitude(lng float64) bool {
	switch {
	case b.AllLongitudes:
		return true
	case b.WrapsAntimeridian():
		return lng >= b.MinLng || lng <= b.MaxLng
	default:
		return lng >= b.MinLng && lng <= b.MaxLng
	}
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && b.ContainsLongitude(lng)
}

// CalculateBoundingBox returns the smallest lat/lng box enclosing the circle of
// radiusMeters around (lat, lng).
func CalculateBoundingBox(lat, lng, radiusMeters float64) BoundingBox {
	// Padded so rounding never cuts into the circle.
	radiusMeters *= 1.01
	angular := radiusMeters / earthRadiusMeters
	deltaLat := angular * 180.0 / math.Pi

	box := BoundingBox{MinLat: lat - deltaLat, MaxLat: lat + deltaLat}
	if box.MaxLat >= 90 || box.MinLat <= -90 {
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		box.MinLng, box.MaxLng, box.AllLongitudes = -180, 180, true
		return box
	}

	// Widest longitude reach of a circle whose latitude span stays off the poles.
	deltaLng := math.Asin(math.Sin(angular)/math.Cos(lat*math.Pi/180.0)) * 180.0 / math.Pi
	if math.IsNaN(deltaLng) || deltaLng >= 180 {
		box.MinLng, box.MaxLng, box.AllLongitudes = -180, 180, true
		return box
	}

	box.MinLng = lng - deltaLng
	box.MaxLng = lng + deltaLng
	if box.MinLng < -180 {
		box.MinLng += 360
	}
	if box.MaxLng > 180 {
		box.MaxLng -= 360
	}
	return box
}

// MeanCenter returns the mean position of the given points. Latitudes are averaged
// directly; longitudes are averaged on the circle so points either side of ±180
// center near the antimeridian rather than near 0.
func MeanCenter(lats, lngs []float64) (float64, float64) {
	if len(lats) == 0 || len(lats) != len(lngs) {
		return 0, 0
	}
	var sumLat, sumSin, sumCos float64
	for i := range lats {
		sumLat += lats[i]
		rad := lngs[i] * math.Pi / 180.0
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)
	}
	n := float64(len(lats))
	return sumLat / n, math.Atan2(sumSin, sumCos) * 180.0 / math.Pi
}
