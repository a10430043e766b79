package duration

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hurricane-exposure/internal/envelope"
	"github.com/couchcryptid/hurricane-exposure/internal/geo"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

var trackBase = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

// eastwardTrack builds a storm moving east along lat 25 at one degree per six
// hours. Each entry of sets supplies the 64 kt radii for one observation; nil
// leaves them missing.
func eastwardTrack(t *testing.T, startLon float64, sets []*track.RadiusSet) track.Track {
	t.Helper()
	obs := make([]track.Observation, len(sets))
	for i, set := range sets {
		obs[i] = track.Observation{
			Time: trackBase.Add(time.Duration(i) * 6 * time.Hour),
			Status: "HU", Lat: 25, Lon: startLon + float64(i),
			MaxWindKt: 100, MinPressureMb: 950, RadiusMaxWindNM: 20,
		}
		if set != nil {
			obs[i].Radii[track.T64] = *set
		}
	}
	tr, err := track.New("AL902024", "MOCK", obs)
	require.NoError(t, err)
	return tr
}

func full(r float64) *track.RadiusSet {
	return &track.RadiusSet{r, r, r, r}
}

func orbPoint(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}

func buildGeometry(t *testing.T, tr track.Track) (*envelope.Envelope, *envelope.Coverage) {
	t.Helper()
	env, err := envelope.Build(tr, envelope.DefaultConfig())
	require.NoError(t, err)
	cov := envelope.BuildCoverage(tr, track.T64, DefaultInterval)
	return env, cov
}

func TestEstimateTimeline(t *testing.T) {
	tr := eastwardTrack(t, -82, []*track.RadiusSet{
		full(50), full(50), full(50), full(50), full(50),
	})
	env, cov := buildGeometry(t, tr)
	est := NewEstimator(tr, env, cov, DefaultConfig())

	t.Run("point under the track core accumulates hours", func(t *testing.T) {
		// 30 nm off-track inside a 50 nm field: covered while the center is
		// within 40 nm along-track, roughly eight hours at this forward speed.
		lat, lon := geo.DestinationPoint(25, -80, 0, 30)
		exp := est.Estimate(lat, lon)

		assert.Equal(t, SourceTimeline, exp.Source)
		assert.Greater(t, exp.DurationHours, 6.0)
		assert.Less(t, exp.DurationHours, 10.0)
		assert.True(t, exp.Continuous)

		require.NotNil(t, exp.FirstEntry)
		require.NotNil(t, exp.LastExit)
		assert.True(t, exp.FirstEntry.Before(*exp.LastExit))

		// Continuous exposure: duration is one interval longer than the
		// entry-to-exit window.
		assert.InDelta(t, exp.DurationHours-DefaultInterval.Hours(), exp.WindowHours, 1e-9)
	})

	t.Run("point outside the field gets zero without fallback", func(t *testing.T) {
		lat, lon := geo.DestinationPoint(25, -80, 0, 300)
		exp := est.Estimate(lat, lon)

		assert.Equal(t, SourceTimeline, exp.Source)
		assert.Zero(t, exp.DurationHours)
		assert.Nil(t, exp.FirstEntry)
		assert.Nil(t, exp.LastExit)
	})
}

func TestEstimateDurationBoundedBySpan(t *testing.T) {
	// A huge field keeps the mid-track point inside at all 49 timesteps of a
	// 12 h track. The grid is end-inclusive, so the raw step count would give
	// 12.25 h; the duration must clamp to the temporal span.
	tr := eastwardTrack(t, -81, []*track.RadiusSet{full(300), full(300), full(300)})
	env, cov := buildGeometry(t, tr)
	est := NewEstimator(tr, env, cov, DefaultConfig())

	exp := est.Estimate(25, -80)
	assert.Equal(t, SourceTimeline, exp.Source)
	assert.Equal(t, 49, exp.Timesteps)
	assert.True(t, exp.Continuous)
	assert.LessOrEqual(t, exp.DurationHours, tr.Span().Hours())
	assert.InDelta(t, tr.Span().Hours(), exp.DurationHours, 1e-9)
	assert.InDelta(t, 12.0, exp.WindowHours, 1e-9)
}

func TestEstimateInterruptedExposure(t *testing.T) {
	// The field drops out mid-track: the first gap observation is recovered
	// by imputation, the second is not, so the densified timeline has a hole.
	// Use short hops so one point sits under the field both early and late.
	obs := []track.Observation{}
	sets := []*track.RadiusSet{full(50), nil, nil, full(50)}
	for i, set := range sets {
		o := track.Observation{
			Time: trackBase.Add(time.Duration(i) * 6 * time.Hour),
			Status: "HU", Lat: 25, Lon: -80 + 0.2*float64(i),
			MaxWindKt: 100, MinPressureMb: 950, RadiusMaxWindNM: 20,
		}
		if set != nil {
			o.Radii[track.T64] = *set
		}
		obs = append(obs, o)
	}
	tr, err := track.New("AL902024", "MOCK", obs)
	require.NoError(t, err)
	env, cov := buildGeometry(t, tr)
	est := NewEstimator(tr, env, cov, DefaultConfig())

	exp := est.Estimate(25, -79.7)
	assert.Equal(t, SourceTimeline, exp.Source)
	assert.False(t, exp.Continuous)
	assert.Positive(t, exp.DurationHours)
	assert.Greater(t, exp.WindowHours, exp.DurationHours)
}

func TestEstimateEdgeFallback(t *testing.T) {
	// Wide geometry from a 100 nm storm paired with a 20 nm timeline: points
	// between the two radii are covered but never test inside a timestep
	// polygon, which is the situation the edge correction exists for.
	wide := eastwardTrack(t, -81, []*track.RadiusSet{full(100), full(100), full(100)})
	narrow := eastwardTrack(t, -81, []*track.RadiusSet{full(20), full(20), full(20)})
	env, cov := buildGeometry(t, wide)
	est := NewEstimator(narrow, env, cov, DefaultConfig())

	t.Run("deep inside the envelope grants one interval", func(t *testing.T) {
		lat, lon := geo.DestinationPoint(25, -80, 0, 50)
		exp := est.Estimate(lat, lon)

		assert.Equal(t, SourceEdgeInterpolated, exp.Source)
		assert.InDelta(t, DefaultInterval.Hours(), exp.DurationHours, 1e-9)
		require.NotNil(t, exp.FirstEntry)
		require.NotNil(t, exp.LastExit)
	})

	t.Run("near the boundary duration scales with depth", func(t *testing.T) {
		lat, lon := geo.DestinationPoint(25, -80, 0, 95)
		exp := est.Estimate(lat, lon)

		assert.Equal(t, SourceEdgeInterpolated, exp.Source)
		assert.Positive(t, exp.DurationHours)
		assert.Less(t, exp.DurationHours, exp.WindowHours)
	})

	t.Run("depth measured against the geometry that admitted the point", func(t *testing.T) {
		// A much wider envelope must not inflate the scaling: the point sits
		// ~5 nm under the coverage boundary, well inside the edge buffer, so
		// the duration scales with that depth rather than collapsing to the
		// minimum interval the envelope distance would suggest.
		widest := eastwardTrack(t, -81, []*track.RadiusSet{full(200), full(200), full(200)})
		envWide, err := envelope.Build(widest, envelope.DefaultConfig())
		require.NoError(t, err)
		deep := NewEstimator(narrow, envWide, cov, DefaultConfig())

		lat, lon := geo.DestinationPoint(25, -80, 0, 95)
		exp := deep.Estimate(lat, lon)

		assert.Equal(t, SourceEdgeInterpolated, exp.Source)
		assert.Greater(t, exp.DurationHours, DefaultInterval.Hours())
		assert.Less(t, exp.DurationHours, exp.WindowHours)
	})

	t.Run("coverage alone carries the fallback without an envelope", func(t *testing.T) {
		covOnly := NewEstimator(narrow, nil, cov, DefaultConfig())

		lat, lon := geo.DestinationPoint(25, -80, 0, 50)
		exp := covOnly.Estimate(lat, lon)

		assert.Equal(t, SourceEdgeInterpolated, exp.Source)
		assert.InDelta(t, DefaultInterval.Hours(), exp.DurationHours, 1e-9)
	})

	t.Run("outside the coverage no fallback applies", func(t *testing.T) {
		lat, lon := geo.DestinationPoint(25, -80, 0, 300)
		exp := est.Estimate(lat, lon)
		assert.Equal(t, SourceTimeline, exp.Source)
		assert.Zero(t, exp.DurationHours)
	})
}

func TestEstimateEdgeUnavailable(t *testing.T) {
	// Only two quadrants ever observed: no timestep has complete radii and
	// the coverage union is empty, so the fallback gates on the envelope but
	// has nothing to scale from.
	half := &track.RadiusSet{50, 50, track.Missing(), track.Missing()}
	tr := eastwardTrack(t, -81, []*track.RadiusSet{half, half, half})

	env, err := envelope.Build(tr, envelope.DefaultConfig())
	require.NoError(t, err)
	cov := envelope.BuildCoverage(tr, track.T64, DefaultInterval)
	require.True(t, cov.Empty())

	est := NewEstimator(tr, env, cov, DefaultConfig())

	lat, lon := geo.DestinationPoint(25, -80, 90, 30)
	require.True(t, env.Contains(orbPoint(lat, lon)))

	exp := est.Estimate(lat, lon)
	assert.Equal(t, SourceEdgeUnavailable, exp.Source)
	assert.Zero(t, exp.DurationHours)
	assert.Nil(t, exp.FirstEntry)
}
