package featurecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/hurricane-exposure/internal/feature"
)

// Read parses a feature CSV produced by Write back into records, used by the
// validate command to run integrity checks over an emitted table.
func Read(r io.Reader) ([]feature.Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read feature header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("feature csv missing column %q", name)
		}
	}

	var out []feature.Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feature row: %w", err)
		}
		line++
		rec, err := parseRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("feature row %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(row []string, col map[string]int) (feature.Record, error) {
	get := func(name string) string { return row[col[name]] }

	var rec feature.Record
	var err error
	rec.PointID = get("point_id")
	rec.StormID = get("storm_id")
	rec.StormName = get("storm_name")
	rec.NearestQuadrant = get("nearest_quadrant")
	rec.WindSource = get("wind_source")
	rec.DurationSource = get("duration_source")

	if rec.DistanceToTrackNM, err = parseFloat(get("distance_to_track_nm")); err != nil {
		return rec, err
	}
	if rec.DistanceToTrackKM, err = parseFloat(get("distance_to_track_km")); err != nil {
		return rec, err
	}
	if rec.MaxWindKt, err = parseFloat(get("max_wind_experienced_kt")); err != nil {
		return rec, err
	}
	if rec.CenterWindKt, err = parseFloat(get("center_wind_at_approach_kt")); err != nil {
		return rec, err
	}
	if rec.RMWUsedNM, err = parseFloat(get("radius_max_wind_used_nm")); err != nil {
		return rec, err
	}
	if rec.DurationHours, err = parseFloat(get("duration_hours")); err != nil {
		return rec, err
	}
	if rec.BoundaryImputed, err = strconv.ParseBool(get("boundary_imputed")); err != nil {
		return rec, fmt.Errorf("boundary_imputed: %w", err)
	}
	if rec.InsideEyewall, err = strconv.ParseBool(get("inside_eyewall")); err != nil {
		return rec, fmt.Errorf("inside_eyewall: %w", err)
	}
	if rec.ContinuousExposure, err = strconv.ParseBool(get("continuous_exposure")); err != nil {
		return rec, fmt.Errorf("continuous_exposure: %w", err)
	}
	if rec.ApproachTime, err = time.Parse(time.RFC3339, get("approach_time")); err != nil {
		return rec, fmt.Errorf("approach_time: %w", err)
	}
	if rec.GeneratedAt, err = time.Parse(time.RFC3339, get("generated_at")); err != nil {
		return rec, fmt.Errorf("generated_at: %w", err)
	}
	if rec.FirstEntry, err = parseOptionalTime(get("first_entry_time")); err != nil {
		return rec, fmt.Errorf("first_entry_time: %w", err)
	}
	if rec.LastExit, err = parseOptionalTime(get("last_exit_time")); err != nil {
		return rec, fmt.Errorf("last_exit_time: %w", err)
	}

	lead := [5]*float64{}
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("lead_time_cat%d_hours", i+1)
		lead[i], err = parseOptionalFloat(get(name))
		if err != nil {
			return rec, fmt.Errorf("%s: %w", name, err)
		}
	}
	rec.LeadTimeCat1Hours = lead[0]
	rec.LeadTimeCat2Hours = lead[1]
	rec.LeadTimeCat3Hours = lead[2]
	rec.LeadTimeCat4Hours = lead[3]
	rec.LeadTimeCat5Hours = lead[4]
	return rec, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
