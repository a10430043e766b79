// Package featurecsv serializes feature records to the CSV layout consumed
// by downstream modeling.
package featurecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/hurricane-exposure/internal/feature"
)

// Header is the output column order. Undefined values (missing lead times,
// absent entry/exit timestamps) serialize as empty cells, never zeros.
var Header = []string{
	"point_id",
	"storm_id",
	"storm_name",
	"distance_to_track_nm",
	"distance_to_track_km",
	"nearest_quadrant",
	"approach_time",
	"boundary_imputed",
	"max_wind_experienced_kt",
	"center_wind_at_approach_kt",
	"radius_max_wind_used_nm",
	"inside_eyewall",
	"wind_source",
	"duration_hours",
	"first_entry_time",
	"last_exit_time",
	"continuous_exposure",
	"duration_source",
	"lead_time_cat1_hours",
	"lead_time_cat2_hours",
	"lead_time_cat3_hours",
	"lead_time_cat4_hours",
	"lead_time_cat5_hours",
	"generated_at",
}

// Write emits the header and one row per record.
func Write(w io.Writer, records []feature.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write feature header: %w", err)
	}
	for i := range records {
		if err := cw.Write(row(&records[i])); err != nil {
			return fmt.Errorf("write feature row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush feature csv: %w", err)
	}
	return nil
}

func row(r *feature.Record) []string {
	return []string{
		r.PointID,
		r.StormID,
		r.StormName,
		formatFloat(r.DistanceToTrackNM),
		formatFloat(r.DistanceToTrackKM),
		r.NearestQuadrant,
		r.ApproachTime.Format(time.RFC3339),
		strconv.FormatBool(r.BoundaryImputed),
		formatFloat(r.MaxWindKt),
		formatFloat(r.CenterWindKt),
		formatFloat(r.RMWUsedNM),
		strconv.FormatBool(r.InsideEyewall),
		r.WindSource,
		formatFloat(r.DurationHours),
		formatTime(r.FirstEntry),
		formatTime(r.LastExit),
		strconv.FormatBool(r.ContinuousExposure),
		r.DurationSource,
		formatOptional(r.LeadTimeCat1Hours),
		formatOptional(r.LeadTimeCat2Hours),
		formatOptional(r.LeadTimeCat3Hours),
		formatOptional(r.LeadTimeCat4Hours),
		formatOptional(r.LeadTimeCat5Hours),
		r.GeneratedAt.Format(time.RFC3339),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
