package envelope

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// ErrNoCoverage signals that a track yields no usable wind-field geometry at
// the requested threshold: every observation lacks sufficient radius data
// even after imputation. Distinct from an empty polygon so callers can skip
// the storm instead of silently testing points against nothing.
var ErrNoCoverage = errors.New("track has no usable wind radii at threshold")

// DefaultMaxGap is the segmentation gap length: a run of this many
// consecutive observations without usable radii splits the track. Shorter
// cutoffs fracture smooth open-ocean tracks; longer ones reintroduce
// spurious corridors across landfall and extratropical-transition voids.
const DefaultMaxGap = 5

// Config holds the envelope-construction tunables.
type Config struct {
	Threshold track.Threshold
	Alpha     float64
	MaxGap    int
	ArcPoints int
}

// DefaultConfig returns the production envelope settings: hurricane-force
// (64 kt) radii, alpha 0.6, 5-observation gap cutoff.
func DefaultConfig() Config {
	return Config{
		Threshold: track.T64,
		Alpha:     DefaultAlpha,
		MaxGap:    DefaultMaxGap,
		ArcPoints: DefaultArcPoints,
	}
}

// Envelope is the storm's lifetime coverage polygon at one threshold,
// built once per storm and read concurrently by the wind and duration
// estimators.
type Envelope struct {
	Geometry  orb.MultiPolygon
	Threshold track.Threshold

	// HullPoints are the boundary points fed into the hulls, retained for
	// QA plotting and the containment-monotonicity tests.
	HullPoints []orb.Point

	// Segments is the number of gap-separated track segments that
	// contributed a hull.
	Segments int
}

// Build constructs the segmented alpha-shape envelope for a storm track:
// impute radii, split the track at data gaps, arc-sample every observation
// in each segment into a point cloud, hull each cloud, and collect the hulls
// into one multipolygon. Returns ErrNoCoverage when nothing usable remains.
func Build(t track.Track, cfg Config) (*Envelope, error) {
	if cfg.Alpha <= 0 {
		cfg.Alpha = DefaultAlpha
	}
	if cfg.MaxGap <= 0 {
		cfg.MaxGap = DefaultMaxGap
	}
	if cfg.ArcPoints <= 0 {
		cfg.ArcPoints = DefaultArcPoints
	}

	imputed := track.ImputeRadii(t, cfg.Threshold)
	segments := segmentTrack(imputed, cfg.MaxGap)

	env := &Envelope{Threshold: cfg.Threshold}
	for _, seg := range segments {
		cloud := segmentPointCloud(t, imputed, seg, cfg.ArcPoints)
		if len(cloud) < 3 {
			continue
		}
		hull := AlphaShape(cloud, cfg.Alpha)
		if len(hull) == 0 {
			continue
		}
		env.Geometry = append(env.Geometry, hull...)
		env.HullPoints = append(env.HullPoints, cloud...)
		env.Segments++
	}

	if len(env.Geometry) == 0 {
		return nil, ErrNoCoverage
	}
	return env, nil
}

// segment is a half-open index range [start, end) into the track.
type segment struct {
	start, end int
}

// segmentTrack splits the observation sequence wherever maxGap or more
// consecutive observations have fewer than two usable quadrants after
// imputation. The hull must not bridge such voids: they mark genuine loss of
// the wind field (landfall dropout, extratropical transition, sparse early
// records), not a data hiccup.
func segmentTrack(imputed []track.ImputedObservation, maxGap int) []segment {
	usable := func(i int) bool { return imputed[i].DefinedCount() >= 2 }

	var segments []segment
	i := 0
	for i < len(imputed) {
		if !usable(i) {
			i++
			continue
		}
		start := i
		j := i
		for j < len(imputed) {
			if usable(j) {
				j++
				continue
			}
			// Length of the unusable run starting here; a long one
			// terminates the segment.
			run := 0
			for j+run < len(imputed) && !usable(j+run) {
				run++
			}
			if run >= maxGap {
				break
			}
			j += run
		}
		// Trim trailing unusable observations from the segment.
		end := j
		for end > start && !usable(end-1) {
			end--
		}
		segments = append(segments, segment{start: start, end: end})
		i = j
	}
	return segments
}

// segmentPointCloud gathers the hull input for one segment: the storm-center
// positions plus the arc samples of every defined quadrant at every
// observation. Center points keep narrow segments connected when radii are
// one-sided.
func segmentPointCloud(t track.Track, imputed []track.ImputedObservation, seg segment, arcPoints int) []orb.Point {
	var cloud []orb.Point
	for i := seg.start; i < seg.end; i++ {
		obs := t.Observations[i]
		cloud = append(cloud, orb.Point{obs.Lon, obs.Lat})
		radii := imputed[i].RadiusSet()
		if radii.DefinedCount() == 0 {
			continue
		}
		cloud = append(cloud, sampleObservationArcs(obs.Lat, obs.Lon, radii, arcPoints)...)
	}
	return cloud
}

// Contains reports whether the point (lon, lat) lies inside the envelope.
func (e *Envelope) Contains(p orb.Point) bool {
	return planar.MultiPolygonContains(e.Geometry, p)
}

// DistanceToBoundaryDeg returns the planar distance in degrees from a point
// to the nearest envelope boundary segment.
func (e *Envelope) DistanceToBoundaryDeg(p orb.Point) float64 {
	best := math.Inf(1)
	for _, poly := range e.Geometry {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				d := pointToSegmentDist(p, ring[i], ring[i+1])
				if d < best {
					best = d
				}
			}
		}
	}
	return best
}

// AreaSqDeg returns the planar area of the envelope in square degrees.
func (e *Envelope) AreaSqDeg() float64 {
	return math.Abs(planar.Area(e.Geometry))
}

// pointToSegmentDist is the planar distance from p to the segment ab.
func pointToSegmentDist(p, a, b orb.Point) float64 {
	abx, aby := b[0]-a[0], b[1]-a[1]
	apx, apy := p[0]-a[0], p[1]-a[1]

	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return math.Hypot(apx, apy)
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p[0]-(a[0]+t*abx), p[1]-(a[1]+t*aby))
}
