package track

// Wind radii drop out of the record during weakening, landfall, and
// extratropical transition even while damaging winds persist. The imputer
// extends coverage through those stretches by shrinking the previous step's
// radii with a per-step ratio learned from the quadrants observed at both
// steps. It never overwrites an observed value.

// ImputedRadius is one quadrant/threshold slot after imputation: the radius
// in nautical miles (NaN when neither observation nor imputation produced a
// value) and whether the value was imputed rather than observed.
type ImputedRadius struct {
	ValueNM float64
	Imputed bool
}

// Defined reports whether the slot carries a positive radius.
func (r ImputedRadius) Defined() bool {
	return !IsMissing(r.ValueNM) && r.ValueNM > 0
}

// ImputedObservation holds the post-imputation quadrant radii for one
// observation at one threshold, plus the shrinkage ratio in effect.
type ImputedObservation struct {
	Radii      [4]ImputedRadius
	Ratio      float64
	AnyImputed bool
}

// RadiusSet flattens the imputed slots back into a plain RadiusSet.
func (o ImputedObservation) RadiusSet() RadiusSet {
	s := EmptyRadiusSet()
	for _, q := range Quadrants {
		s[q] = o.Radii[q].ValueNM
	}
	return s
}

// DefinedCount returns how many quadrants carry a positive radius after
// imputation.
func (o ImputedObservation) DefinedCount() int {
	n := 0
	for _, q := range Quadrants {
		if o.Radii[q].Defined() {
			n++
		}
	}
	return n
}

// ImputeRadii fills missing quadrant radii at the given threshold using
// proportional shrinkage from the previous observation. For each step the
// ratio is the mean of current/previous over quadrants observed at both
// steps (previous value taken post-imputation, so chains extend through
// multi-step gaps). When no overlap exists the last known ratio carries
// forward. Imputation triggers only where the observation is eligible: at
// least 2 quadrants observed at the current step, or at least 2 at the
// previous step. The first observation has no predecessor and keeps its
// missing slots.
//
// Pure function: the track is not modified, and observed values pass through
// untouched with Imputed=false.
func ImputeRadii(t Track, th Threshold) []ImputedObservation {
	out := make([]ImputedObservation, len(t.Observations))

	// Before any overlap yields a measured ratio, carry-forward applies the
	// initial 1.0: no evidence of shrinkage yet.
	lastRatio := 1.0

	for i, obs := range t.Observations {
		cur := obs.Radii[th]
		res := ImputedObservation{Ratio: lastRatio}
		for _, q := range Quadrants {
			res.Radii[q] = ImputedRadius{ValueNM: cur[q]}
		}

		if i == 0 {
			out[i] = res
			continue
		}

		prev := out[i-1]

		// Per-step ratio from quadrants observed now with a defined value
		// (observed or imputed) at the previous step.
		ratioSum, ratioN := 0.0, 0
		for _, q := range Quadrants {
			if cur.Defined(q) && prev.Radii[q].Defined() {
				ratioSum += cur[q] / prev.Radii[q].ValueNM
				ratioN++
			}
		}
		stepRatio := lastRatio
		if ratioN > 0 {
			stepRatio = ratioSum / float64(ratioN)
			if stepRatio < 0 {
				stepRatio = 0
			}
			lastRatio = stepRatio
		}
		res.Ratio = stepRatio

		if cur.DefinedCount() == len(Quadrants) {
			out[i] = res
			continue // fully observed, nothing to fill
		}

		if !imputable(cur, t.Observations[i-1].Radii[th]) {
			out[i] = res
			continue
		}

		for _, q := range Quadrants {
			if cur.Defined(q) {
				continue
			}
			prevVal := prev.Radii[q]
			if !prevVal.Defined() {
				continue
			}
			v := prevVal.ValueNM * stepRatio
			if v < 0 {
				v = 0
			}
			res.Radii[q] = ImputedRadius{ValueNM: v, Imputed: true}
			res.AnyImputed = true
		}

		out[i] = res
	}

	return out
}

// imputable reports whether an observation has enough signal for shrinkage
// imputation: ≥2 quadrants observed now, or ≥2 observed at the previous
// step. One lone quadrant says nothing about the field's shape.
func imputable(cur, prev RadiusSet) bool {
	return cur.DefinedCount() >= 2 || prev.DefinedCount() >= 2
}

// ImputedSets runs ImputeRadii and returns just the resulting RadiusSet per
// observation, the shape consumed by Track.WithRadii.
func ImputedSets(t Track, th Threshold) []RadiusSet {
	imputed := ImputeRadii(t, th)
	sets := make([]RadiusSet, len(imputed))
	for i, io := range imputed {
		sets[i] = io.RadiusSet()
	}
	return sets
}
