package envelope

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// Coverage is the union of every interpolated timestep's instantaneous wind
// polygon. Unlike the alpha-shape envelope it contains no approximation
// overshoot: a point is covered only if the arc-exact wind field reached it
// at some instant. The union is lazy — containment tests each member — so no
// polygon-union algorithm is needed.
//
// The orchestrator uses it to pre-filter candidate points, and the duration
// estimator prefers it over the envelope when validating the edge fallback.
type Coverage struct {
	shapes []*InstantPolygon
}

// BuildCoverage imputes and densifies the track at the given threshold and
// collects the instantaneous polygons with zero smoothing buffer (exact
// radii coverage only). Returns an empty Coverage when no timestep produces
// a polygon.
func BuildCoverage(t track.Track, th track.Threshold, interval time.Duration) *Coverage {
	working := t.WithRadii(th, track.ImputedSets(t, th))
	steps := track.Densify(working, interval)

	c := &Coverage{}
	for _, step := range steps {
		poly := BuildInstantPolygon(step.Lat, step.Lon, step.Radii[th], 0)
		if poly == nil || len(poly.Ring()) == 0 {
			continue
		}
		c.shapes = append(c.shapes, poly)
	}
	return c
}

// Empty reports whether no timestep contributed a polygon.
func (c *Coverage) Empty() bool {
	return c == nil || len(c.shapes) == 0
}

// Contains reports whether any member polygon contains the point.
func (c *Coverage) Contains(p orb.Point) bool {
	if c == nil {
		return false
	}
	for _, s := range c.shapes {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// DepthDeg returns how deep inside the union the point sits, in planar
// degrees: the greatest distance from the point to the boundary of any
// member polygon containing it. Zero when no member contains the point.
// Where members overlap this can undershoot the true distance to the
// union's outer boundary, never overshoot it.
func (c *Coverage) DepthDeg(p orb.Point) float64 {
	if c == nil {
		return 0
	}
	depth := 0.0
	for _, s := range c.shapes {
		if !s.Contains(p) {
			continue
		}
		if d := s.DistanceToBoundaryDeg(p); d > depth {
			depth = d
		}
	}
	return depth
}
