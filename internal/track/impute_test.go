package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackWithRadii(t *testing.T, sets []RadiusSet) Track {
	t.Helper()
	base := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]Observation, len(sets))
	for i, set := range sets {
		obs[i] = obsAt(base.Add(time.Duration(i)*6*time.Hour), 25, -80+float64(i))
		obs[i].Radii[T64] = set
	}
	tr, err := New("AL902024", "MOCK", obs)
	require.NoError(t, err)
	return tr
}

func TestImputeRadii(t *testing.T) {
	miss := Missing()

	t.Run("observed values are never overwritten", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, 40, 40},
			{25, 25, miss, miss},
		})
		out := ImputeRadii(tr, T64)
		require.Len(t, out, 2)

		assert.Equal(t, 25.0, out[1].Radii[NE].ValueNM)
		assert.False(t, out[1].Radii[NE].Imputed)
		assert.Equal(t, 25.0, out[1].Radii[SE].ValueNM)
		assert.False(t, out[1].Radii[SE].Imputed)
	})

	t.Run("missing quadrants shrink by the observed ratio", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, 40, 40},
			{25, 25, miss, miss},
		})
		out := ImputeRadii(tr, T64)

		// Ratio from NE and SE: mean(25/50, 25/50) = 0.5.
		assert.InDelta(t, 0.5, out[1].Ratio, 1e-9)
		assert.InDelta(t, 20.0, out[1].Radii[SW].ValueNM, 1e-9)
		assert.True(t, out[1].Radii[SW].Imputed)
		assert.InDelta(t, 20.0, out[1].Radii[NW].ValueNM, 1e-9)
		assert.True(t, out[1].Radii[NW].Imputed)
		assert.True(t, out[1].AnyImputed)
	})

	t.Run("imputation chains through multi-step gaps", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, 40, 40},
			{25, 25, miss, miss},
			{20, 20, miss, miss},
		})
		out := ImputeRadii(tr, T64)

		// Step 2 ratio: mean(20/25, 20/25) = 0.8 against the imputed 20s.
		assert.InDelta(t, 0.8, out[2].Ratio, 1e-9)
		assert.InDelta(t, 16.0, out[2].Radii[SW].ValueNM, 1e-9)
		assert.True(t, out[2].Radii[SW].Imputed)
	})

	t.Run("ratio carries forward when no quadrants overlap", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, 40, 40},
			{25, 25, miss, miss},
			{miss, miss, miss, miss},
		})
		out := ImputeRadii(tr, T64)

		// No overlap at step 2; the previous step had >=2 observed quadrants
		// so the carried 0.5 ratio applies to every slot.
		assert.InDelta(t, 0.5, out[2].Ratio, 1e-9)
		assert.InDelta(t, 12.5, out[2].Radii[NE].ValueNM, 1e-9)
		assert.InDelta(t, 10.0, out[2].Radii[SW].ValueNM, 1e-9)
		assert.True(t, out[2].Radii[NE].Imputed)
	})

	t.Run("initial ratio of one applies before any overlap", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, miss, miss},
			{miss, miss, miss, miss},
		})
		out := ImputeRadii(tr, T64)

		// No ratio has ever been measured; carry-forward starts at 1.0.
		assert.InDelta(t, 1.0, out[1].Ratio, 1e-9)
		assert.InDelta(t, 50.0, out[1].Radii[NE].ValueNM, 1e-9)
		assert.True(t, out[1].Radii[NE].Imputed)
		assert.True(t, IsMissing(out[1].Radii[SW].ValueNM))
	})

	t.Run("one lone quadrant is not enough signal", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, miss, miss, miss},
			{25, miss, miss, miss},
		})
		out := ImputeRadii(tr, T64)

		assert.True(t, IsMissing(out[1].Radii[SE].ValueNM))
		assert.False(t, out[1].AnyImputed)
	})

	t.Run("first observation keeps its missing slots", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, miss, miss},
			{40, 40, 30, 30},
		})
		out := ImputeRadii(tr, T64)

		assert.True(t, IsMissing(out[0].Radii[SW].ValueNM))
		assert.False(t, out[0].AnyImputed)
	})

	t.Run("fully observed steps pass through", func(t *testing.T) {
		tr := trackWithRadii(t, []RadiusSet{
			{50, 50, 40, 40},
			{45, 45, 35, 35},
		})
		out := ImputeRadii(tr, T64)

		assert.False(t, out[1].AnyImputed)
		assert.Equal(t, 4, out[1].DefinedCount())
	})
}

func TestImputedSets(t *testing.T) {
	miss := Missing()
	tr := trackWithRadii(t, []RadiusSet{
		{50, 50, 40, 40},
		{25, 25, miss, miss},
	})
	sets := ImputedSets(tr, T64)
	require.Len(t, sets, 2)
	assert.InDelta(t, 20.0, sets[1][SW], 1e-9)
	assert.Equal(t, 4, sets[1].DefinedCount())
}
