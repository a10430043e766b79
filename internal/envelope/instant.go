package envelope

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/couchcryptid/hurricane-exposure/internal/geo"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// DefaultSmoothingDeg is the corner-smoothing tolerance applied to
// instantaneous polygons, in degrees (~1.3 nm at mid-latitudes). It blunts
// the sharp concavities where quadrant arcs of different radii meet and
// gives the sparse-quadrant fallback shapes their width.
const DefaultSmoothingDeg = 0.02

// InstantPolygon is the wind extent at a single interpolated timestep. The
// shape degrades gracefully with data availability: a full arc-sampled ring
// for 3–4 quadrants, a buffered chord line for 2, a buffered point for 1.
// Containment honors the smoothing tolerance instead of materializing a
// buffered geometry.
type InstantPolygon struct {
	ring      orb.Ring       // 3-4 quadrant case, closed
	line      orb.LineString // ≤2 quadrant fallback
	tolerance float64
}

// BuildInstantPolygon forms the wind polygon for one timestep from the
// quadrant radii at a single threshold. toleranceDeg is the smoothing
// buffer; pass 0 for exact arc coverage (sparse-quadrant shapes then have no
// area and match nothing, matching the zero-buffer union semantics).
// Returns nil when no quadrant has a usable radius: no containment test is
// possible at this instant.
func BuildInstantPolygon(lat, lon float64, radii track.RadiusSet, toleranceDeg float64) *InstantPolygon {
	valid := radii.DefinedCount()
	if valid == 0 {
		return nil
	}

	// With ≤2 quadrants an arc ring would collapse into a sliver; the
	// buffered chord through the quadrant extent points is more stable.
	if valid <= 2 {
		var line orb.LineString
		for _, q := range track.Quadrants {
			if !radii.Defined(q) {
				continue
			}
			dLat, dLon := geo.DestinationPoint(lat, lon, q.MidBearing(), radii[q])
			line = append(line, orb.Point{dLon, dLat})
		}
		if len(line) == 0 {
			return nil
		}
		return &InstantPolygon{line: line, tolerance: toleranceDeg}
	}

	coords := sampleObservationArcs(lat, lon, radii, DefaultArcPoints)
	if len(coords) < 3 {
		if len(coords) == 0 {
			return nil
		}
		return &InstantPolygon{line: coords, tolerance: toleranceDeg}
	}

	ring := make(orb.Ring, 0, len(coords)+1)
	ring = append(ring, coords...)
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	ring = orientRing(ring, true)
	return &InstantPolygon{ring: ring, tolerance: toleranceDeg}
}

// Contains reports whether the point lies inside the instantaneous wind
// extent, including the smoothing tolerance around the boundary.
func (p *InstantPolygon) Contains(pt orb.Point) bool {
	if p == nil {
		return false
	}
	if len(p.ring) > 0 {
		if planar.RingContains(p.ring, pt) {
			return true
		}
		return p.tolerance > 0 && distanceToPath(pt, []orb.Point(p.ring)) <= p.tolerance
	}
	if len(p.line) == 0 || p.tolerance <= 0 {
		return false
	}
	return distanceToPath(pt, []orb.Point(p.line)) <= p.tolerance
}

// Ring exposes the polygon boundary when the shape is a full ring, nil for
// the sparse fallbacks.
func (p *InstantPolygon) Ring() orb.Ring {
	if p == nil {
		return nil
	}
	return p.ring
}

// DistanceToBoundaryDeg returns the planar distance in degrees from the
// point to the shape's boundary (the ring, or the chord fallback line).
// Zero for a nil or empty shape.
func (p *InstantPolygon) DistanceToBoundaryDeg(pt orb.Point) float64 {
	if p == nil {
		return 0
	}
	if len(p.ring) > 0 {
		return distanceToPath(pt, []orb.Point(p.ring))
	}
	if len(p.line) > 0 {
		return distanceToPath(pt, []orb.Point(p.line))
	}
	return 0
}

// AreaSqDeg returns the planar area in square degrees (zero for the sparse
// fallback shapes).
func (p *InstantPolygon) AreaSqDeg() float64 {
	if p == nil || len(p.ring) == 0 {
		return 0
	}
	return math.Abs(signedArea(p.ring))
}

// distanceToPath is the planar distance from pt to a polyline (a single
// point degenerates to point distance).
func distanceToPath(pt orb.Point, path []orb.Point) float64 {
	if len(path) == 1 {
		return planar.Distance(pt, path[0])
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(path); i++ {
		if d := pointToSegmentDist(pt, path[i], path[i+1]); d < best {
			best = d
		}
	}
	return best
}
