// Package points loads target-point collections (tract centroids) from CSV.
package points

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/hurricane-exposure/internal/feature"
)

// Load reads a CSV of target points with columns id, lat, lon (header row
// required, extra columns ignored). Coordinates must be finite decimal
// degrees; a bad row fails the load since point identity errors would
// silently corrupt the whole feature table.
func Load(r io.Reader) ([]feature.TargetPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read points header: %w", err)
	}
	idIdx, latIdx, lonIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "id", "point_id", "geoid", "tract_id":
			if idIdx < 0 {
				idIdx = i
			}
		case "lat", "latitude":
			latIdx = i
		case "lon", "lng", "longitude":
			lonIdx = i
		}
	}
	if idIdx < 0 || latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("points header %v: need id, lat, lon columns", header)
	}

	var out []feature.TargetPoint
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read points row: %w", err)
		}
		line++
		if len(row) <= idIdx || len(row) <= latIdx || len(row) <= lonIdx {
			return nil, fmt.Errorf("points row %d: too few columns", line)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("points row %d: lat: %w", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("points row %d: lon: %w", line, err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("points row %d: coordinates (%v, %v) out of range", line, lat, lon)
		}
		id := strings.TrimSpace(row[idIdx])
		if id == "" {
			return nil, fmt.Errorf("points row %d: empty id", line)
		}
		out = append(out, feature.TargetPoint{ID: id, Lat: lat, Lon: lon})
	}
	return out, nil
}
