package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	// Warsaw to Kraków is roughly 252 km.
	d := HaversineDistance(52.2297, 21.0122, 50.0647, 19.9450)
	assert.InDelta(t, 252000, d, 3000)
	assert.Equal(t, 0.0, HaversineDistance(10, 10, 10, 10))
}

func TestCalculateBoundingBoxContainsRadius(t *testing.T) {
	box := CalculateBoundingBox(52, 19, 1000)
	assert.False(t, box.AllLongitudes)
	assert.False(t, box.WrapsAntimeridian())
	assert.Less(t, box.MinLat, 52.0)
	assert.Greater(t, box.MaxLat, 52.0)
	assert.Less(t, box.MinLng, 19.0)
	assert.Greater(t, box.MaxLng, 19.0)

	assert.GreaterOrEqual(t, HaversineDistance(52, 19, box.MaxLat, 19), 999.0)
	assert.GreaterOrEqual(t, HaversineDistance(52, 19, 52, box.MaxLng), 999.0)
}

func TestCalculateBoundingBoxWrapsAntimeridian(t *testing.T) {
	box := CalculateBoundingBox(-16.5, 179.9, 50000)
	require.True(t, box.WrapsAntimeridian())
	assert.Greater(t, box.MinLng, 179.0)
	assert.Less(t, box.MaxLng, -179.0)

	// About 21 km east, across the antimeridian.
	require.Less(t, HaversineDistance(-16.5, 179.9, -16.5, -179.9), 50000.0)
	assert.True(t, box.Contains(-16.5, -179.9))
	assert.True(t, box.Contains(-16.5, 179.9))
	assert.False(t, box.Contains(-16.5, 0))

	west := CalculateBoundingBox(10, -179.95, 20000)
	require.True(t, west.WrapsAntimeridian())
	assert.True(t, west.Contains(10, 179.95))
}

func TestCalculateBoundingBoxCoversPole(t *testing.T) {
	box := CalculateBoundingBox(89.5, 0, 100000)
	require.True(t, box.AllLongitudes)
	assert.Equal(t, 90.0, box.MaxLat)

	// Across the pole, about 89 km away.
	require.Less(t, HaversineDistance(89.5, 0, 89.7, 180), 100000.0)
	assert.True(t, box.Contains(89.7, 180))

	south := CalculateBoundingBox(-90, 0, 5000)
	assert.True(t, south.AllLongitudes)
	assert.Equal(t, -90.0, south.MinLat)
	assert.Greater(t, south.MaxLat, -90.0)
}

func TestMeanCenter(t *testing.T) {
	lat, lng := MeanCenter([]float64{50, 54}, []float64{18, 20})
	assert.InDelta(t, 52.0, lat, 1e-9)
	assert.InDelta(t, 19.0, lng, 1e-9)

	lat, lng = MeanCenter(nil, nil)
	assert.Equal(t, 0.0, lat)
	assert.Equal(t, 0.0, lng)
}

func TestMeanCenterAcrossAntimeridian(t *testing.T) {
	_, lng := MeanCenter([]float64{-16, -17}, []float64{179, -179})
	assert.InDelta(t, 180.0, math.Abs(lng), 1e-9)
}
