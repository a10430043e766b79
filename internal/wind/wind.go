// Package wind estimates the maximum sustained wind experienced at a point
// during a storm's passage, reconciling radius-of-maximum-wind data with the
// observed wind-radius boundaries.
//
// The model is a plateau-and-decay profile evaluated as an ordered rule
// list: inside the RMW the wind plateaus at the interpolated center
// intensity; between the RMW and the innermost wind-radius boundary
// containing the point it decays linearly to that boundary's threshold
// speed; beyond all boundaries but inside the coverage envelope it decays to
// 64 kt at the envelope edge. Observed boundaries always take precedence
// over pure RMW decay — they are ground truth where present.
package wind

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/hurricane-exposure/internal/envelope"
	"github.com/couchcryptid/hurricane-exposure/internal/geo"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// ErrOutOfCoverage signals a target point outside the storm's coverage
// envelope. Callers are expected to have filtered such points upstream, so
// this is a loud precondition failure rather than a silent zero.
var ErrOutOfCoverage = errors.New("target point outside coverage envelope")

// Source records which rule of the decay model produced a wind estimate.
type Source int

const (
	SourceUnknown Source = iota
	SourceRMWPlateau
	SourceDecayTo64
	SourceDecayTo50
	SourceDecayTo34
	SourceDecayToEnvelope
	SourceError
)

func (s Source) String() string {
	switch s {
	case SourceRMWPlateau:
		return "rmw_plateau"
	case SourceDecayTo64:
		return "rmw_decay_to_64kt"
	case SourceDecayTo50:
		return "rmw_decay_to_50kt"
	case SourceDecayTo34:
		return "rmw_decay_to_34kt"
	case SourceDecayToEnvelope:
		return "rmw_decay_to_envelope"
	case SourceError:
		return "error"
	default:
		return "unknown"
	}
}

// decaySource maps a radius threshold to its rule's provenance tag.
func decaySource(th track.Threshold) Source {
	switch th {
	case track.T64:
		return SourceDecayTo64
	case track.T50:
		return SourceDecayTo50
	default:
		return SourceDecayTo34
	}
}

// Estimate is the wind exposure at one target point.
type Estimate struct {
	MaxWindKt    float64
	CenterWindKt float64
	RMWUsedNM    float64

	InsideEyewall bool
	Source        Source

	// BoundaryImputed is set when a decay rule resolved against an imputed
	// rather than observed quadrant radius.
	BoundaryImputed bool

	// Approach geometry.
	DistanceNM    float64 // target to nearest point on track line
	NearestLat    float64
	NearestLon    float64
	Quadrant      track.Quadrant
	EdgeMarginNM  float64   // envelope edge beyond the target along the ray, ≥0
	ApproachIndex int       // index of the nearest real observation
	ApproachTime  time.Time // interpolated time of closest approach
}

// Estimator evaluates the decay model against one storm. It is immutable
// after construction and safe for concurrent use by target-point workers.
type Estimator struct {
	track   track.Track
	env     *envelope.Envelope
	imputed [3][]track.ImputedObservation
}

// NewEstimator precomputes per-threshold imputed radii for the storm so the
// per-point hot path does no allocation-heavy track work.
func NewEstimator(t track.Track, env *envelope.Envelope) *Estimator {
	e := &Estimator{track: t, env: env}
	for _, th := range track.Thresholds {
		e.imputed[th] = track.ImputeRadii(t, th)
	}
	return e
}

// Estimate runs the rule list for a target point. Returns ErrOutOfCoverage
// when the point lies outside the envelope, and wraps
// envelope.ErrRayMiss when the edge-decay rule cannot resolve a boundary.
func (e *Estimator) Estimate(lat, lon float64) (Estimate, error) {
	target := orb.Point{lon, lat}

	near := e.nearestApproach(target)
	centerWind := e.interpolateIntensity(near)
	rmw := e.resolveRMW(near, centerWind)

	distNM := geo.HaversineNM(near.point[1], near.point[0], lat, lon)
	quadrant := track.QuadrantForOffset(lat-near.point[1], lon-near.point[0])

	est := Estimate{
		CenterWindKt:  centerWind,
		RMWUsedNM:     rmw,
		DistanceNM:    distNM,
		NearestLat:    near.point[1],
		NearestLon:    near.point[0],
		Quadrant:      quadrant,
		ApproachIndex: near.obsIndex,
		ApproachTime:  e.approachTime(near),
	}

	// Rule 1: eyewall plateau.
	if distNM <= rmw || closeEnough(distNM, rmw) {
		est.MaxWindKt = centerWind
		est.InsideEyewall = true
		est.Source = SourceRMWPlateau
		e.addEdgeMargin(&est, near.point, target)
		return est, nil
	}

	// Rules 2-4: decay to the innermost observed boundary containing the
	// point, strongest threshold first.
	for _, th := range [3]track.Threshold{track.T64, track.T50, track.T34} {
		boundary := e.imputed[th][near.obsIndex].Radii[quadrant]
		if !boundary.Defined() {
			continue
		}
		if distNM > boundary.ValueNM && !closeEnough(distNM, boundary.ValueNM) {
			continue
		}
		est.MaxWindKt = decay(centerWind, th.Knots(), distNM, rmw, boundary.ValueNM)
		est.Source = decaySource(th)
		est.BoundaryImputed = boundary.Imputed
		e.addEdgeMargin(&est, near.point, target)
		return est, nil
	}

	// Rule 5: beyond all observed boundaries but inside the envelope,
	// decay to 64 kt at the envelope edge.
	if !e.env.Contains(target) {
		return Estimate{}, fmt.Errorf("point (%.4f, %.4f): %w", lat, lon, ErrOutOfCoverage)
	}

	edgeNM, _, err := envelope.RayBoundaryDistanceNM(near.point, target, e.env)
	if err != nil {
		return Estimate{}, fmt.Errorf("envelope edge decay at (%.4f, %.4f): %w", lat, lon, err)
	}
	est.MaxWindKt = decay(centerWind, 64, distNM, rmw, edgeNM)
	est.Source = SourceDecayToEnvelope
	est.EdgeMarginNM = math.Max(edgeNM-distNM, 0)
	return est, nil
}

// decay interpolates linearly from centerWind at the RMW down to floorKt at
// the boundary distance, clamping into [floorKt, centerWind]. A degenerate
// (zero or negative) decay range returns the center wind rather than
// propagating a division by zero.
func decay(centerWind, floorKt, distNM, rmwNM, boundaryNM float64) float64 {
	decayRange := boundaryNM - rmwNM
	if decayRange <= 0 || closeEnough(decayRange, 0) {
		return centerWind
	}
	fraction := (distNM - rmwNM) / decayRange
	fraction = math.Min(math.Max(fraction, 0), 1)
	v := centerWind - fraction*(centerWind-floorKt)
	return math.Max(v, floorKt)
}

// approach is the nearest point on the track polyline with its bracketing
// segment.
type approach struct {
	point    orb.Point
	segIndex int     // segment [segIndex, segIndex+1]
	fraction float64 // position along the segment, 0..1
	obsIndex int     // nearer real observation of the bracketing pair
}

// nearestApproach projects the target onto the track's connecting line in
// planar degrees, the same space the envelope lives in.
func (e *Estimator) nearestApproach(target orb.Point) approach {
	obs := e.track.Observations
	if len(obs) == 1 {
		return approach{point: orb.Point{obs[0].Lon, obs[0].Lat}}
	}

	best := approach{}
	bestDist := math.Inf(1)
	for i := 0; i+1 < len(obs); i++ {
		a := orb.Point{obs[i].Lon, obs[i].Lat}
		b := orb.Point{obs[i+1].Lon, obs[i+1].Lat}
		pt, frac := projectOntoSegment(target, a, b)
		d := math.Hypot(target[0]-pt[0], target[1]-pt[1])
		if d < bestDist {
			bestDist = d
			best = approach{point: pt, segIndex: i, fraction: frac}
		}
	}
	best.obsIndex = best.segIndex
	if best.fraction > 0.5 {
		best.obsIndex = best.segIndex + 1
	}
	return best
}

// approachTime lerps the closest-approach time between the bracketing
// observations' timestamps.
func (e *Estimator) approachTime(near approach) time.Time {
	obs := e.track.Observations
	if len(obs) == 1 {
		return obs[0].Time
	}
	a := obs[near.segIndex].Time
	b := obs[near.segIndex+1].Time
	return a.Add(time.Duration(near.fraction * float64(b.Sub(a))))
}

// interpolateIntensity lerps center intensity between the bracketing
// observations, tolerating a missing endpoint.
func (e *Estimator) interpolateIntensity(near approach) float64 {
	obs := e.track.Observations
	if len(obs) == 1 {
		return obs[0].MaxWindKt
	}
	a := obs[near.segIndex].MaxWindKt
	b := obs[near.segIndex+1].MaxWindKt
	switch {
	case track.IsMissing(a) && track.IsMissing(b):
		return track.Missing()
	case track.IsMissing(a):
		return b
	case track.IsMissing(b):
		return a
	default:
		return a + near.fraction*(b-a)
	}
}

// resolveRMW interpolates the radius of maximum wind at the approach point,
// falling back to a climatological default keyed on intensity when the
// bracketing observations carry no RMW: ≥96 kt → 20 nm, ≥64 kt → 30 nm,
// weaker or unknown → 40/30 nm. These are policy defaults, not physics.
func (e *Estimator) resolveRMW(near approach, centerWind float64) float64 {
	obs := e.track.Observations
	var a, b float64
	if len(obs) == 1 {
		a, b = obs[0].RadiusMaxWindNM, obs[0].RadiusMaxWindNM
	} else {
		a = obs[near.segIndex].RadiusMaxWindNM
		b = obs[near.segIndex+1].RadiusMaxWindNM
	}

	var rmw float64
	switch {
	case track.IsMissing(a) && track.IsMissing(b):
		rmw = defaultRMW(centerWind)
	case track.IsMissing(a):
		rmw = b
	case track.IsMissing(b):
		rmw = a
	default:
		rmw = a + near.fraction*(b-a)
	}
	return math.Max(rmw, 0)
}

func defaultRMW(centerWind float64) float64 {
	switch {
	case track.IsMissing(centerWind):
		return 30
	case centerWind >= 96:
		return 20
	case centerWind >= 64:
		return 30
	default:
		return 40
	}
}

// addEdgeMargin records how far beyond the target the envelope edge lies.
// Best effort: a ray miss leaves the margin at zero rather than failing an
// otherwise valid boundary-rule estimate.
func (e *Estimator) addEdgeMargin(est *Estimate, from, target orb.Point) {
	edgeNM, _, err := envelope.RayBoundaryDistanceNM(from, target, e.env)
	if err != nil {
		return
	}
	est.EdgeMarginNM = math.Max(edgeNM-est.DistanceNM, 0)
}

// projectOntoSegment returns the closest point to p on segment ab and the
// fractional position of that point along the segment.
func projectOntoSegment(p, a, b orb.Point) (orb.Point, float64) {
	abx, aby := b[0]-a[0], b[1]-a[1]
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return a, 0
	}
	t := ((p[0]-a[0])*abx + (p[1]-a[1])*aby) / lenSq
	t = math.Min(math.Max(t, 0), 1)
	return orb.Point{a[0] + t*abx, a[1] + t*aby}, t
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(math.Abs(a), math.Abs(b))
}
