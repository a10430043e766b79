package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationPoint(t *testing.T) {
	t.Run("due north from the equator changes only latitude", func(t *testing.T) {
		lat, lon := DestinationPoint(0, -76, 0, 60)
		assert.InDelta(t, -76.0, lon, 1e-9)
		assert.Greater(t, lat, 0.0)
		// 60 nm along a meridian is about one degree of latitude.
		assert.InDelta(t, 1.0, lat, 0.01)
	})

	t.Run("due east from the equator changes only longitude", func(t *testing.T) {
		lat, lon := DestinationPoint(0, 10, 90, 120)
		assert.InDelta(t, 0.0, lat, 1e-9)
		assert.InDelta(t, 12.0, lon, 0.02)
	})

	t.Run("round trip through haversine recovers the distance", func(t *testing.T) {
		for _, bearing := range []float64{0, 45, 135, 222.5, 315} {
			lat, lon := DestinationPoint(28.5, -89.6, bearing, 50)
			back := HaversineNM(28.5, -89.6, lat, lon)
			assert.InDelta(t, 50.0, back, 1e-9, "bearing %v", bearing)
		}
	})

	t.Run("longitude wraps across the antimeridian", func(t *testing.T) {
		_, lon := DestinationPoint(0, 179.9, 90, 60)
		assert.Less(t, lon, -178.0)
		assert.GreaterOrEqual(t, lon, -180.0)
	})

	t.Run("non-finite inputs propagate instead of panicking", func(t *testing.T) {
		lat, _ := DestinationPoint(math.NaN(), 0, 0, 10)
		assert.True(t, math.IsNaN(lat))
	})
}

func TestHaversineNM(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Zero(t, HaversineNM(29.95, -90.07, 29.95, -90.07))
	})

	t.Run("symmetry", func(t *testing.T) {
		d1 := HaversineNM(25, -80, 30, -90)
		d2 := HaversineNM(30, -90, 25, -80)
		assert.Equal(t, d1, d2)
	})

	t.Run("one degree of latitude is about sixty nautical miles", func(t *testing.T) {
		d := HaversineNM(25, -80, 26, -80)
		require.InDelta(t, 60.0, d, 0.1)
	})
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already in range", -76.5, -76.5},
		{"wraps past 180", 190, -170},
		{"wraps below -180", -190, 170},
		{"exactly 180 maps to -180", 180, -180},
		{"multiple wraps", 540, -180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeLon(tt.in), 1e-9)
		})
	}
}

func TestNormalizeBearing(t *testing.T) {
	assert.InDelta(t, 45.0, NormalizeBearing(405), 1e-9)
	assert.InDelta(t, 315.0, NormalizeBearing(-45), 1e-9)
	assert.InDelta(t, 0.0, NormalizeBearing(720), 1e-9)
}

func TestNMToKM(t *testing.T) {
	// 1 nm is 1.852 km by definition; the spherical-radius ratio lands close.
	assert.InDelta(t, 1.852, NMToKM(1), 0.01)
}
