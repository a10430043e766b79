package featurecsv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hurricane-exposure/internal/feature"
)

func sampleRecords() []feature.Record {
	approach := time.Date(2021, 8, 29, 15, 30, 0, 0, time.UTC)
	entry := approach.Add(-4 * time.Hour)
	exit := approach.Add(3 * time.Hour)
	lead := func(v float64) *float64 { return &v }

	return []feature.Record{
		{
			PointID: "22071001700", StormID: "AL092021", StormName: "IDA",
			DistanceToTrackNM: 12.3456, DistanceToTrackKM: 22.8641,
			NearestQuadrant: "NE", ApproachTime: approach,
			MaxWindKt: 115.5, CenterWindKt: 130, RMWUsedNM: 10,
			InsideEyewall: false, WindSource: "rmw_decay_to_64kt",
			DurationHours: 6.75, FirstEntry: &entry, LastExit: &exit,
			ContinuousExposure: true, DurationSource: "timeline",
			LeadTimeCat1Hours: lead(52.5), LeadTimeCat2Hours: lead(45.0),
			LeadTimeCat3Hours: lead(30.25), LeadTimeCat4Hours: lead(18.0),
			GeneratedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			// Edge-fallback record: no entry/exit, no lead times past cat 1.
			PointID: "48201100000", StormID: "AL092021", StormName: "IDA",
			DistanceToTrackNM: 80, DistanceToTrackKM: 148.16,
			NearestQuadrant: "NW", ApproachTime: approach, BoundaryImputed: true,
			MaxWindKt: 65, CenterWindKt: 130, RMWUsedNM: 10,
			WindSource: "rmw_decay_to_envelope",
			DurationHours: 0.25, DurationSource: "edge_interpolated",
			LeadTimeCat1Hours: lead(52.5),
			GeneratedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecords()))

	t.Run("undefined values are empty cells, not zeros", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Join(Header, ","), lines[0])

		// Second record: cat2-cat5 lead times and entry/exit are undefined.
		assert.Contains(t, lines[2], ",52.5000,,,,")
		assert.NotContains(t, lines[2], "0001-01-01")
	})

	t.Run("read round-trips the semantic content", func(t *testing.T) {
		got, err := Read(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Len(t, got, 2)

		first, second := got[0], got[1]
		assert.Equal(t, "22071001700", first.PointID)
		assert.Equal(t, "IDA", first.StormName)
		assert.InDelta(t, 12.3456, first.DistanceToTrackNM, 1e-4)
		assert.Equal(t, "rmw_decay_to_64kt", first.WindSource)
		assert.True(t, first.ContinuousExposure)
		require.NotNil(t, first.FirstEntry)
		assert.True(t, first.FirstEntry.Equal(time.Date(2021, 8, 29, 11, 30, 0, 0, time.UTC)))
		require.NotNil(t, first.LeadTime(4))
		assert.InDelta(t, 18.0, *first.LeadTime(4), 1e-9)
		assert.Nil(t, first.LeadTime(5))

		assert.True(t, second.BoundaryImputed)
		assert.Nil(t, second.FirstEntry)
		assert.Nil(t, second.LastExit)
		assert.Nil(t, second.LeadTime(2))
		assert.Equal(t, "edge_interpolated", second.DurationSource)
	})
}

func TestReadRejectsForeignCSV(t *testing.T) {
	_, err := Read(strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}
