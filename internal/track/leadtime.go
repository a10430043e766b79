package track

import "time"

// Saffir-Simpson category thresholds in knots, categories 1 through 5.
var CategoryThresholdsKt = [5]float64{64, 83, 96, 113, 137}

// LeadTimes holds the warning lead time in hours per Saffir-Simpson
// category. A nil entry means the storm never reached that category, which
// is distinct from a lead time of zero: models must be able to tell "no
// warning possible" from "no warning margin".
type LeadTimes struct {
	Hours [5]*float64
}

// Category returns the lead time for a 1-based category number.
func (l LeadTimes) Category(n int) *float64 {
	if n < 1 || n > len(l.Hours) {
		return nil
	}
	return l.Hours[n-1]
}

// EstimateLeadTimes finds when the storm first reached each category
// threshold and differences it against the closest-approach time. Positive
// values are advance warning; negative values mean the storm intensified
// past the threshold after closest approach.
func EstimateLeadTimes(t Track, closestApproach time.Time) LeadTimes {
	var out LeadTimes
	for i, thresholdKt := range CategoryThresholdsKt {
		crossing, ok := firstCrossing(t, thresholdKt)
		if !ok {
			continue
		}
		hours := closestApproach.Sub(crossing).Hours()
		out.Hours[i] = &hours
	}
	return out
}

// firstCrossing returns the time the storm's intensity first reached
// thresholdKt, linearly interpolated between the bracketing observations:
// an intensity rising through the threshold mid-pair crosses at the
// proportional timestamp, not at the next 6-hourly report. Relies on the
// track's chronological order.
func firstCrossing(t Track, thresholdKt float64) (time.Time, bool) {
	prevIdx := -1
	for i, obs := range t.Observations {
		if IsMissing(obs.MaxWindKt) {
			continue
		}
		if obs.MaxWindKt >= thresholdKt {
			if prevIdx < 0 {
				return obs.Time, true
			}
			prev := t.Observations[prevIdx]
			rise := obs.MaxWindKt - prev.MaxWindKt
			if rise <= 0 {
				return obs.Time, true
			}
			frac := (thresholdKt - prev.MaxWindKt) / rise
			dt := obs.Time.Sub(prev.Time)
			return prev.Time.Add(time.Duration(frac * float64(dt))), true
		}
		prevIdx = i
	}
	return time.Time{}, false
}

// ValidateLeadTimes sanity-checks a lead-time set for logical consistency:
// once a category is nil every higher category must be nil, and lead times
// should not increase with category by more than one observation interval
// (6 hours). Storms that weaken and re-intensify can legitimately fail the
// second check, so this is a QA signal rather than a hard invariant.
func ValidateLeadTimes(l LeadTimes) bool {
	foundNil := false
	for _, v := range l.Hours {
		if foundNil && v != nil {
			return false
		}
		if v == nil {
			foundNil = true
		}
	}

	var defined []float64
	for _, v := range l.Hours {
		if v != nil {
			defined = append(defined, *v)
		}
	}
	for i := 0; i+1 < len(defined); i++ {
		if defined[i] < defined[i+1]-6.0 {
			return false
		}
	}
	return true
}
