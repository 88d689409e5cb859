package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-map/internal/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildPredicateEmpty(t *testing.T) {
	p := BuildPredicate(GalleryFilter{})
	assert.True(t, p.Empty())
	assert.Empty(t, p.Args)
}

func TestBuildPredicateFilenameIsParameterized(t *testing.T) {
	p := BuildPredicate(GalleryFilter{Filename: "x'; DROP TABLE photos; --"})

	assert.Equal(t, `filename LIKE ? ESCAPE '\'`, p.Clause)
	assert.Equal(t, []interface{}{"%x'; DROP TABLE photos; --%"}, p.Args)
}

func TestBuildPredicateEscapesWildcards(t *testing.T) {
	p := BuildPredicate(GalleryFilter{Filename: `50%_off\`})
	assert.Equal(t, []interface{}{`%50\%\_off\\%`}, p.Args)
}

func TestBuildPredicateDateRange(t *testing.T) {
	p := BuildPredicate(GalleryFilter{From: date(2023, 6, 1), To: date(2023, 6, 30)})

	assert.Equal(t, "date_taken >= ? AND date_taken <= ?", p.Clause)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), p.Args[0])
	assert.Equal(t, time.Date(2023, 6, 30, 23, 59, 59, 999000000, time.UTC), p.Args[1])
}

func TestBuildPredicateOpenEndedRange(t *testing.T) {
	p := BuildPredicate(GalleryFilter{To: date(2023, 6, 30)})
	assert.Equal(t, "date_taken <= ?", p.Clause)
	assert.Len(t, p.Args, 1)
}

func TestBuildPredicateNear(t *testing.T) {
	p := BuildPredicate(GalleryFilter{
		Filename:     "a",
		Near:         &models.Coordinates{Latitude: 52, Longitude: 19},
		RadiusMeters: 500,
	})
	assert.Equal(t, `filename LIKE ? ESCAPE '\' AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`, p.Clause)
	assert.Len(t, p.Args, 5)

	// Across the antimeridian the longitude span splits in two.
	p = BuildPredicate(GalleryFilter{
		Near:         &models.Coordinates{Latitude: -16.5, Longitude: 179.9},
		RadiusMeters: 50000,
	})
	assert.Equal(t, "latitude BETWEEN ? AND ? AND (longitude >= ? OR longitude <= ?)", p.Clause)
	require.Len(t, p.Args, 4)
	assert.Greater(t, p.Args[2].(float64), 179.0)
	assert.Less(t, p.Args[3].(float64), -179.0)

	// A circle over the pole spans every longitude.
	p = BuildPredicate(GalleryFilter{
		Near:         &models.Coordinates{Latitude: 89.5, Longitude: 0},
		RadiusMeters: 100000,
	})
	assert.Equal(t, "latitude BETWEEN ? AND ?", p.Clause)
	assert.Equal(t, 90.0, p.Args[1])

	// A point without a radius does not filter.
	p = BuildPredicate(GalleryFilter{Near: &models.Coordinates{Latitude: 52, Longitude: 19}})
	assert.True(t, p.Empty())
}

func TestDayBounds(t *testing.T) {
	in := time.Date(2023, 6, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), StartOfDay(in))
	assert.Equal(t, time.Date(2023, 6, 15, 23, 59, 59, 999000000, time.UTC), EndOfDay(in))
}
