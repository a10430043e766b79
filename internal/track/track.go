// Package track models HURDAT2-style hurricane best-track data: 6-hourly
// observations with per-quadrant wind radii, plus the track-level derivations
// that need no geometry (radius imputation, temporal densification, warning
// lead times).
package track

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Quadrant identifies one of the four 90° sectors around a storm center for
// which HURDAT2 reports independent wind-radius extents.
type Quadrant int

const (
	NE Quadrant = iota
	SE
	SW
	NW
)

// Quadrants lists all quadrants in HURDAT2 column order (NE, SE, SW, NW).
var Quadrants = [4]Quadrant{NE, SE, SW, NW}

func (q Quadrant) String() string {
	switch q {
	case NE:
		return "NE"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case NW:
		return "NW"
	default:
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
}

// BearingRange returns the true-bearing span of the quadrant's arc in
// degrees. The NW range runs past 360 so the four ranges are monotonically
// increasing when concatenated around the compass.
func (q Quadrant) BearingRange() (start, end float64) {
	switch q {
	case NE:
		return 45, 135
	case SE:
		return 135, 225
	case SW:
		return 225, 315
	default:
		return 315, 405
	}
}

// MidBearing returns the bearing through the middle of the quadrant
// (45° for NE, 135° for SE, and so on).
func (q Quadrant) MidBearing() float64 {
	start, end := q.BearingRange()
	return math.Mod((start+end)/2, 360)
}

// QuadrantForOffset classifies the position of a point relative to a storm
// center by the sign of its latitude/longitude offsets. Points exactly on an
// axis resolve the same way the original survey data was coded: north/east
// boundaries belong to NE, the south boundary to SE, the west boundary to NW.
func QuadrantForOffset(latDiff, lonDiff float64) Quadrant {
	switch {
	case latDiff >= 0 && lonDiff >= 0:
		return NE
	case latDiff < 0 && lonDiff >= 0:
		return SE
	case latDiff < 0 && lonDiff < 0:
		return SW
	default:
		return NW
	}
}

// Threshold identifies one of the three sustained-wind speeds for which
// HURDAT2 reports quadrant radii.
type Threshold int

const (
	T34 Threshold = iota
	T50
	T64
)

// Thresholds lists all radius thresholds from weakest to strongest.
var Thresholds = [3]Threshold{T34, T50, T64}

// Knots returns the sustained wind speed the threshold represents.
func (t Threshold) Knots() float64 {
	switch t {
	case T34:
		return 34
	case T50:
		return 50
	default:
		return 64
	}
}

func (t Threshold) String() string {
	return fmt.Sprintf("%.0fkt", t.Knots())
}

// ParseThreshold converts a label like "64kt" into a Threshold.
func ParseThreshold(s string) (Threshold, error) {
	switch s {
	case "34kt":
		return T34, nil
	case "50kt":
		return T50, nil
	case "64kt":
		return T64, nil
	default:
		return 0, fmt.Errorf("unknown wind threshold %q", s)
	}
}

// Missing is the sentinel for an absent numeric value. HURDAT2 encodes
// missing radii as -999; the parser normalizes those to NaN so arithmetic
// code can test with IsMissing instead of comparing magic numbers.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a numeric field carries the absent sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// RadiusSet holds the four quadrant radii (nautical miles) for one threshold
// at one observation, indexed by Quadrant. Missing entries are NaN.
type RadiusSet [4]float64

// EmptyRadiusSet returns a RadiusSet with every quadrant missing.
func EmptyRadiusSet() RadiusSet {
	return RadiusSet{Missing(), Missing(), Missing(), Missing()}
}

// Defined reports whether the quadrant has a positive observed radius.
// Zero is treated as undefined: HURDAT2 writes 0 both for "no such winds"
// and for "not measured", so a zero radius carries no boundary information.
func (r RadiusSet) Defined(q Quadrant) bool {
	return !IsMissing(r[q]) && r[q] > 0
}

// DefinedCount returns how many quadrants have a positive radius.
func (r RadiusSet) DefinedCount() int {
	n := 0
	for _, q := range Quadrants {
		if r.Defined(q) {
			n++
		}
	}
	return n
}

// Observation is one 6-hourly best-track record. Numeric fields use NaN for
// missing values; Radii is indexed by Threshold then Quadrant.
type Observation struct {
	Time     time.Time
	RecordID string // landfall/intensity-peak markers, e.g. "L"
	Status   string // system status code, e.g. "HU", "TS", "EX"

	Lat float64
	Lon float64

	MaxWindKt       float64
	MinPressureMb   float64
	RadiusMaxWindNM float64

	Radii [3]RadiusSet
}

// Radius returns the observed radius for a threshold/quadrant slot.
func (o Observation) Radius(t Threshold, q Quadrant) float64 {
	return o.Radii[t][q]
}

// Track is the chronologically ordered best track of one storm. It is
// immutable once built; every estimator reads it concurrently without
// locking.
type Track struct {
	StormID      string
	Name         string
	Observations []Observation
}

// New builds a Track, sorting observations chronologically. Tracks are
// sorted exactly once here; segmentation and lead-time scans rely on the
// order and never re-sort.
func New(stormID, name string, obs []Observation) (Track, error) {
	if len(obs) == 0 {
		return Track{}, fmt.Errorf("storm %s: track has no observations", stormID)
	}
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].Time.After(sorted[i-1].Time) {
			return Track{}, fmt.Errorf("storm %s: duplicate observation time %s",
				stormID, sorted[i].Time.Format(time.RFC3339))
		}
	}
	return Track{StormID: stormID, Name: name, Observations: sorted}, nil
}

// Span returns the temporal extent of the track.
func (t Track) Span() time.Duration {
	if len(t.Observations) < 2 {
		return 0
	}
	first := t.Observations[0].Time
	last := t.Observations[len(t.Observations)-1].Time
	return last.Sub(first)
}

// Bounds returns the track's bounding box in degrees, padded by margin on
// every side: minLat, minLon, maxLat, maxLon.
func (t Track) Bounds(marginDeg float64) (minLat, minLon, maxLat, maxLon float64) {
	minLat, minLon = math.Inf(1), math.Inf(1)
	maxLat, maxLon = math.Inf(-1), math.Inf(-1)
	for _, o := range t.Observations {
		minLat = math.Min(minLat, o.Lat)
		maxLat = math.Max(maxLat, o.Lat)
		minLon = math.Min(minLon, o.Lon)
		maxLon = math.Max(maxLon, o.Lon)
	}
	return minLat - marginDeg, minLon - marginDeg, maxLat + marginDeg, maxLon + marginDeg
}

// WithRadii returns a copy of the track with the given threshold's radius
// slots replaced. Used to swap imputed radii in before densification so the
// interpolator sees the extended coverage.
func (t Track) WithRadii(th Threshold, sets []RadiusSet) Track {
	obs := make([]Observation, len(t.Observations))
	copy(obs, t.Observations)
	for i := range obs {
		if i < len(sets) {
			obs[i].Radii[th] = sets[i]
		}
	}
	return Track{StormID: t.StormID, Name: t.Name, Observations: obs}
}
