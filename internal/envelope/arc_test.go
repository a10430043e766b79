package envelope

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hurricane-exposure/internal/geo"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

func TestSampleQuadrantArc(t *testing.T) {
	t.Run("samples the full quadrant at the requested radius", func(t *testing.T) {
		pts := SampleQuadrantArc(29.0, -90.0, track.NE, 50, 30)
		require.Len(t, pts, 30)

		for _, p := range pts {
			d := geo.HaversineNM(29.0, -90.0, p[1], p[0])
			assert.InDelta(t, 50.0, d, 1e-6)
		}

		// NE arc runs from bearing 45 to 135: first point north-east of the
		// center, last point south-east.
		first, last := pts[0], pts[len(pts)-1]
		assert.Greater(t, first[1], 29.0)
		assert.Greater(t, first[0], -90.0)
		assert.Less(t, last[1], 29.0)
		assert.Greater(t, last[0], -90.0)
	})

	t.Run("missing or non-positive radii yield no points", func(t *testing.T) {
		assert.Nil(t, SampleQuadrantArc(29, -90, track.NE, track.Missing(), 30))
		assert.Nil(t, SampleQuadrantArc(29, -90, track.NE, 0, 30))
		assert.Nil(t, SampleQuadrantArc(29, -90, track.NE, -5, 30))
		assert.Nil(t, SampleQuadrantArc(29, -90, track.NE, math.Inf(1), 30))
	})

	t.Run("north-west arc wraps through due north", func(t *testing.T) {
		pts := SampleQuadrantArc(29.0, -90.0, track.NW, 40, 30)
		require.Len(t, pts, 30)
		// Starts north-west, ends north-east of the center.
		assert.Less(t, pts[0][0], -90.0)
		assert.Greater(t, pts[len(pts)-1][0], -90.0)
		for _, p := range pts {
			assert.Greater(t, p[1], 29.0-40.0/60.0)
		}
	})
}

func TestArcAreaExceedsChordQuadrilateral(t *testing.T) {
	// Radii are radial distances: the arc-sampled boundary of a symmetric
	// 50 nm field must enclose noticeably more area than the naive
	// quadrilateral through the four extent points (a factor of pi/2 for a
	// circle vs its inscribed square).
	radii := track.RadiusSet{50, 50, 50, 50}
	coords := sampleObservationArcs(29.0, -90.0, radii, 30)
	require.NotEmpty(t, coords)

	arcRing := append(orb.Ring{}, coords...)
	arcRing = append(arcRing, arcRing[0])
	arcArea := math.Abs(signedArea(arcRing))

	quadRing := make(orb.Ring, 0, 5)
	for _, q := range track.Quadrants {
		lat, lon := geo.DestinationPoint(29.0, -90.0, q.MidBearing(), 50)
		quadRing = append(quadRing, orb.Point{lon, lat})
	}
	quadRing = append(quadRing, quadRing[0])
	quadArea := math.Abs(signedArea(quadRing))

	require.Greater(t, quadArea, 0.0)
	assert.Greater(t, arcArea, quadArea*1.4)
	assert.Less(t, arcArea, quadArea*1.7)
}
