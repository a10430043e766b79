// Package hurdat parses the NHC HURDAT2 best-track text format into Track
// values, normalizing the format's missing-value sentinels to NaN and units
// to nautical miles / knots / decimal degrees.
package hurdat

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// Data lines carry 21 comma-separated fields through the RMW column added in
// 2021; older records stop at 20. Anything shorter than the pressure column
// is malformed.
const minDataFields = 8

// Parser reads HURDAT2 text into sorted storm tracks. Malformed lines are
// logged and skipped rather than failing the file: the historical database
// contains occasional irregularities and a batch should survive them.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a HURDAT2 parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads the full HURDAT2 stream and returns one Track per storm, in
// file order. Storms whose every data line is malformed are dropped.
func (p *Parser) Parse(r io.Reader) ([]track.Track, error) {
	var (
		tracks    []track.Track
		stormID   string
		stormName string
		obs       []track.Observation
	)

	flush := func() {
		if stormID == "" || len(obs) == 0 {
			return
		}
		t, err := track.New(stormID, stormName, obs)
		if err != nil {
			p.logger.Warn("dropping storm with invalid track", "storm_id", stormID, "error", err)
			return
		}
		tracks = append(tracks, t)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := splitFields(line)
		if isHeader(parts) {
			flush()
			stormID = parts[0]
			stormName = parts[1]
			if stormName == "" {
				stormName = "UNNAMED"
			}
			obs = nil
			continue
		}

		o, err := parseObservation(parts)
		if err != nil {
			p.logger.Warn("skipping malformed track line",
				"line", lineNo, "storm_id", stormID, "error", err)
			continue
		}
		obs = append(obs, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read hurdat2 stream: %w", err)
	}
	flush()
	return tracks, nil
}

// ParseStorms parses the stream and keeps only the storms whose IDs appear
// in the filter. An empty filter keeps everything.
func (p *Parser) ParseStorms(r io.Reader, stormIDs []string) ([]track.Track, error) {
	tracks, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(stormIDs) == 0 {
		return tracks, nil
	}
	want := make(map[string]bool, len(stormIDs))
	for _, id := range stormIDs {
		want[strings.ToUpper(strings.TrimSpace(id))] = true
	}
	var keep []track.Track
	for _, t := range tracks {
		if want[strings.ToUpper(t.StormID)] {
			keep = append(keep, t)
		}
	}
	return keep, nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	// A trailing comma yields one empty field; drop it.
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// isHeader recognizes a storm header line: basin-prefixed storm ID, name,
// record count — e.g. "AL092021, IDA, 40".
func isHeader(parts []string) bool {
	if len(parts) < 3 || len(parts) > 4 {
		return false
	}
	if len(parts[0]) != 8 {
		return false
	}
	_, err := strconv.Atoi(parts[2])
	return err == nil
}

func parseObservation(parts []string) (track.Observation, error) {
	if len(parts) < minDataFields {
		return track.Observation{}, fmt.Errorf("expected at least %d fields, got %d", minDataFields, len(parts))
	}

	ts, err := parseTimestamp(parts[0], parts[1])
	if err != nil {
		return track.Observation{}, err
	}
	lat, err := parseCoordinate(parts[4])
	if err != nil {
		return track.Observation{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseCoordinate(parts[5])
	if err != nil {
		return track.Observation{}, fmt.Errorf("longitude: %w", err)
	}

	o := track.Observation{
		Time:            ts,
		RecordID:        parts[2],
		Status:          parts[3],
		Lat:             lat,
		Lon:             lon,
		MaxWindKt:       parseNumeric(parts[6], false),
		MinPressureMb:   fieldAt(parts, 7, false),
		RadiusMaxWindNM: fieldAt(parts, 20, true),
	}

	// Quadrant radii: 34kt in fields 8-11, 50kt in 12-15, 64kt in 16-19,
	// each NE/SE/SW/NW. Zero is ambiguous in the format (no such winds vs.
	// not measured) and is treated as missing like -999.
	radiiStart := [3]int{8, 12, 16}
	for _, th := range track.Thresholds {
		set := track.EmptyRadiusSet()
		for qi, q := range track.Quadrants {
			set[q] = fieldAt(parts, radiiStart[th]+qi, true)
		}
		o.Radii[th] = set
	}
	return o, nil
}

// parseTimestamp combines the date and time columns: "20210829", "1655".
func parseTimestamp(dateStr, timeStr string) (time.Time, error) {
	for len(timeStr) < 4 {
		timeStr = "0" + timeStr
	}
	ts, err := time.Parse("200601021504", dateStr+timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q %q: %w", dateStr, timeStr, err)
	}
	return ts.UTC(), nil
}

// parseCoordinate converts a hemisphere-suffixed value like "28.0N" or
// "94.8W" to signed decimal degrees.
func parseCoordinate(s string) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("coordinate %q too short", s)
	}
	hemi := s[len(s)-1]
	v, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}
	switch hemi {
	case 'N', 'E':
		return v, nil
	case 'S', 'W':
		return -v, nil
	default:
		return 0, fmt.Errorf("coordinate %q: unknown hemisphere %q", s, string(hemi))
	}
}

// parseNumeric converts a numeric field, mapping the -999 sentinel (and for
// radius fields also 0 and empty) to missing.
func parseNumeric(s string, zeroIsMissing bool) float64 {
	if s == "" || s == "-999" {
		return track.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return track.Missing()
	}
	if zeroIsMissing && v == 0 {
		return track.Missing()
	}
	return v
}

func fieldAt(parts []string, i int, zeroIsMissing bool) float64 {
	if i >= len(parts) {
		return track.Missing()
	}
	return parseNumeric(parts[i], zeroIsMissing)
}
