package envelope

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// squareEnvelope is a unit test fixture: a 2x2 degree square centered on the
// origin.
func squareEnvelope(cx, cy float64) *Envelope {
	ring := orb.Ring{
		{cx - 1, cy - 1}, {cx + 1, cy - 1}, {cx + 1, cy + 1}, {cx - 1, cy + 1}, {cx - 1, cy - 1},
	}
	return &Envelope{
		Geometry:  orb.MultiPolygon{{ring}},
		Threshold: track.T64,
	}
}

func TestRayBoundaryDistanceNM(t *testing.T) {
	env := squareEnvelope(0, 0)

	t.Run("ray due north exits through the top edge", func(t *testing.T) {
		nm, crossing, err := RayBoundaryDistanceNM(orb.Point{0, 0}, orb.Point{0, 0.5}, env)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, crossing[0], 1e-9)
		assert.InDelta(t, 1.0, crossing[1], 1e-9)
		// One degree of latitude is ~60 nm.
		assert.InDelta(t, 60.04, nm, 0.1)
	})

	t.Run("nearest crossing wins", func(t *testing.T) {
		// From inside, heading east: crossings at x=1 only; from west of the
		// square the ray crosses both vertical edges and must report x=-1.
		nm, crossing, err := RayBoundaryDistanceNM(orb.Point{-3, 0}, orb.Point{-2, 0}, env)
		require.NoError(t, err)
		assert.InDelta(t, -1.0, crossing[0], 1e-9)
		assert.InDelta(t, 2*60.04, nm, 0.3)
	})

	t.Run("ray pointing away from the envelope misses", func(t *testing.T) {
		far := squareEnvelope(10, 0)
		_, _, err := RayBoundaryDistanceNM(orb.Point{0, 0}, orb.Point{-1, 0}, far)
		require.ErrorIs(t, err, ErrRayMiss)
	})

	t.Run("boundary beyond the ray length misses", func(t *testing.T) {
		far := squareEnvelope(10, 0)
		_, _, err := RayBoundaryDistanceNM(orb.Point{0, 0}, orb.Point{0.5, 0}, far)
		require.ErrorIs(t, err, ErrRayMiss)
	})

	t.Run("target on the track point degenerates to zero", func(t *testing.T) {
		nm, crossing, err := RayBoundaryDistanceNM(orb.Point{0.2, 0.3}, orb.Point{0.2, 0.3}, env)
		require.NoError(t, err)
		assert.Zero(t, nm)
		assert.Equal(t, orb.Point{0.2, 0.3}, crossing)
	})

	t.Run("diagonal ray hits the corner region", func(t *testing.T) {
		nm, crossing, err := RayBoundaryDistanceNM(orb.Point{0, 0}, orb.Point{0.5, 0.5}, env)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, crossing[0], 1e-9)
		assert.InDelta(t, 1.0, crossing[1], 1e-9)
		assert.Positive(t, nm)
	})
}
