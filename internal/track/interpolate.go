package track

import "time"

// Densify resamples the track at a fixed sub-interval by linear
// interpolation of every numeric field: position, intensity, pressure, RMW,
// and all quadrant radii at every threshold. Synthetic observations carry an
// empty RecordID and the Status of the pair's starting observation.
//
// Sampling grid: each consecutive pair contributes its start observation
// plus points at k·interval (k ≥ 1) strictly before the pair's end, so
// concatenated pairs never duplicate a boundary timestamp. The final real
// observation is always appended, making the overall grid end-inclusive.
//
// Missing-value policy: if either endpoint of a pair is missing a field, the
// interpolated field is missing across the whole sub-interval. No guessing;
// the arc sampler already skips missing radii.
//
// Plain linear interpolation in degrees is used for position. At 15-minute
// spacing a storm travels a few nautical miles, where the planar
// approximation error is far below the data's own precision.
func Densify(t Track, interval time.Duration) []Observation {
	obs := t.Observations
	if len(obs) == 0 {
		return nil
	}
	if len(obs) == 1 || interval <= 0 {
		out := make([]Observation, len(obs))
		copy(out, obs)
		return out
	}

	var out []Observation
	for i := 0; i < len(obs)-1; i++ {
		start, end := obs[i], obs[i+1]
		out = append(out, start)

		delta := end.Time.Sub(start.Time)
		if delta <= 0 {
			continue
		}

		for k := 1; ; k++ {
			offset := time.Duration(k) * interval
			if offset >= delta {
				break
			}
			ratio := float64(offset) / float64(delta)
			out = append(out, lerpObservation(start, end, ratio, start.Time.Add(offset)))
		}
	}
	out = append(out, obs[len(obs)-1])
	return out
}

func lerpObservation(a, b Observation, ratio float64, at time.Time) Observation {
	o := Observation{
		Time:   at,
		Status: a.Status,

		Lat: lerp(a.Lat, b.Lat, ratio),
		Lon: lerp(a.Lon, b.Lon, ratio),

		MaxWindKt:       lerpMissing(a.MaxWindKt, b.MaxWindKt, ratio),
		MinPressureMb:   lerpMissing(a.MinPressureMb, b.MinPressureMb, ratio),
		RadiusMaxWindNM: lerpMissing(a.RadiusMaxWindNM, b.RadiusMaxWindNM, ratio),
	}
	for _, th := range Thresholds {
		set := EmptyRadiusSet()
		for _, q := range Quadrants {
			set[q] = lerpMissing(a.Radii[th][q], b.Radii[th][q], ratio)
		}
		o.Radii[th] = set
	}
	return o
}

func lerp(a, b, ratio float64) float64 {
	return a + ratio*(b-a)
}

// lerpMissing poisons the result when either endpoint is missing.
func lerpMissing(a, b, ratio float64) float64 {
	if IsMissing(a) || IsMissing(b) {
		return Missing()
	}
	return lerp(a, b, ratio)
}
