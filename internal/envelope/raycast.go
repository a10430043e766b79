package envelope

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/hurricane-exposure/internal/geo"
)

// rayLengthDeg bounds the cast ray. 5° (~300 nm) comfortably exceeds any
// HURDAT2 wind radius, so a ray that finds no boundary within it genuinely
// points away from the envelope.
const rayLengthDeg = 5.0

// ErrRayMiss is returned when the cast ray never crosses the envelope
// boundary within its length, which happens when the ray runs down the long
// axis of a large envelope.
var ErrRayMiss = errors.New("ray does not intersect envelope boundary")

// RayBoundaryDistanceNM casts a ray from the track point through the target
// point and returns the great-circle distance (nautical miles) from the
// track point to the first envelope boundary crossing, along with the
// crossing itself. When a non-convex envelope yields several crossings, the
// one nearest the track point wins.
func RayBoundaryDistanceNM(from, through orb.Point, env *Envelope) (float64, orb.Point, error) {
	dirX := through[0] - from[0]
	dirY := through[1] - from[1]
	norm := math.Hypot(dirX, dirY)
	if norm < 1e-12 {
		return 0, from, nil // target sits on the track point
	}

	tee := orb.Point{
		from[0] + rayLengthDeg*dirX/norm,
		from[1] + rayLengthDeg*dirY/norm,
	}

	best := math.Inf(1)
	var bestPt orb.Point
	for _, poly := range env.Geometry {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				pt, ok := segmentIntersection(from, tee, ring[i], ring[i+1])
				if !ok {
					continue
				}
				d := math.Hypot(pt[0]-from[0], pt[1]-from[1])
				if d < best {
					best = d
					bestPt = pt
				}
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, orb.Point{}, ErrRayMiss
	}
	nm := geo.HaversineNM(from[1], from[0], bestPt[1], bestPt[0])
	return nm, bestPt, nil
}

// segmentIntersection returns the intersection point of segments pq and ab,
// if any. Collinear overlaps report the p-side endpoint of the overlap.
func segmentIntersection(p, q, a, b orb.Point) (orb.Point, bool) {
	rX, rY := q[0]-p[0], q[1]-p[1]
	sX, sY := b[0]-a[0], b[1]-a[1]

	denom := rX*sY - rY*sX
	acX, acY := a[0]-p[0], a[1]-p[1]

	if math.Abs(denom) < 1e-15 {
		// Parallel. Check collinearity, then overlap along r.
		if math.Abs(acX*rY-acY*rX) > 1e-15 {
			return orb.Point{}, false
		}
		rLenSq := rX*rX + rY*rY
		if rLenSq == 0 {
			return orb.Point{}, false
		}
		t0 := (acX*rX + acY*rY) / rLenSq
		t1 := t0 + (sX*rX+sY*rY)/rLenSq
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t1 < 0 || t0 > 1 {
			return orb.Point{}, false
		}
		t := math.Max(t0, 0)
		return orb.Point{p[0] + t*rX, p[1] + t*rY}, true
	}

	t := (acX*sY - acY*sX) / denom
	u := (acX*rY - acY*rX) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, false
	}
	return orb.Point{p[0] + t*rX, p[1] + t*rY}, true
}
