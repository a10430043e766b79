// Command validate performs integrity checks over an emitted feature CSV:
// field presence and enum validity, duration bounds, lead-time logical
// consistency, and unit cross-checks. It exits nonzero when any phase fails,
// making it usable as a post-batch QA gate.
//
// Usage:
//
//	go run ./cmd/validate -features features.csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/hurricane-exposure/internal/adapter/featurecsv"
	"github.com/couchcryptid/hurricane-exposure/internal/feature"
	"github.com/couchcryptid/hurricane-exposure/internal/geo"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	featuresPath := flag.String("features", "", "path to the feature CSV to validate")
	flag.Parse()

	if *featuresPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*featuresPath))
}

func run(path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open feature csv: %v\n", err)
		return 1
	}
	defer f.Close()

	records, err := featurecsv.Read(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse feature csv: %v\n", err)
		return 1
	}

	fmt.Println("=== Feature Table Integrity Validation ===")
	fmt.Println()

	phases := []*phase{
		validateFields(records),
		validateDurations(records),
		validateLeadTimes(records),
		validateUnits(records),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

var (
	validQuadrants = map[string]bool{"NE": true, "SE": true, "SW": true, "NW": true}
	validSources   = map[string]bool{
		"rmw_plateau":           true,
		"rmw_decay_to_64kt":     true,
		"rmw_decay_to_50kt":     true,
		"rmw_decay_to_34kt":     true,
		"rmw_decay_to_envelope": true,
	}
	validDurationSources = map[string]bool{
		"timeline":          true,
		"edge_interpolated": true,
		"edge_unavailable":  true,
	}
)

// ── Phase 1: Field presence and enum validity ──

func validateFields(records []feature.Record) *phase {
	p := &phase{name: "Phase 1: Field presence and enums"}
	seen := map[string]bool{}
	for i := range records {
		r := &records[i]
		if r.PointID == "" {
			p.errorf("record %d: empty point_id", i)
		}
		if r.StormID == "" {
			p.errorf("record %d: empty storm_id", i)
		}
		key := r.StormID + "|" + r.PointID
		if seen[key] {
			p.errorf("record %d: duplicate (storm, point) pair %s", i, key)
		}
		seen[key] = true

		if !validQuadrants[r.NearestQuadrant] {
			p.errorf("record %d: nearest_quadrant %q not in {NE, SE, SW, NW}", i, r.NearestQuadrant)
		}
		if !validSources[r.WindSource] {
			p.errorf("record %d: wind_source %q invalid", i, r.WindSource)
		}
		if !validDurationSources[r.DurationSource] {
			p.errorf("record %d: duration_source %q invalid", i, r.DurationSource)
		}
		if r.InsideEyewall && r.WindSource != "rmw_plateau" {
			p.errorf("record %d: inside_eyewall with wind_source %q", i, r.WindSource)
		}
		if r.GeneratedAt.IsZero() {
			p.errorf("record %d: generated_at is zero", i)
		}
	}
	return p
}

// ── Phase 2: Duration bounds ──

func validateDurations(records []feature.Record) *phase {
	p := &phase{name: "Phase 2: Duration bounds"}
	for i := range records {
		r := &records[i]
		if r.DurationHours < 0 {
			p.errorf("record %d: negative duration %.4f", i, r.DurationHours)
		}
		if r.DurationHours > 0 && (r.FirstEntry == nil || r.LastExit == nil) {
			p.errorf("record %d: nonzero duration without entry/exit times", i)
		}
		if r.FirstEntry != nil && r.LastExit != nil {
			window := r.LastExit.Sub(*r.FirstEntry).Hours()
			if window < 0 {
				p.errorf("record %d: last_exit before first_entry", i)
			}
			if r.DurationSource == "timeline" && r.DurationHours > window+0.5 {
				p.errorf("record %d: duration %.2f exceeds entry-exit window %.2f", i, r.DurationHours, window)
			}
		}
	}
	return p
}

// ── Phase 3: Lead-time consistency ──

func validateLeadTimes(records []feature.Record) *phase {
	p := &phase{name: "Phase 3: Lead-time consistency"}
	for i := range records {
		r := &records[i]
		lt := track.LeadTimes{Hours: [5]*float64{
			r.LeadTimeCat1Hours,
			r.LeadTimeCat2Hours,
			r.LeadTimeCat3Hours,
			r.LeadTimeCat4Hours,
			r.LeadTimeCat5Hours,
		}}
		if !track.ValidateLeadTimes(lt) {
			p.errorf("record %d (%s/%s): inconsistent lead times", i, r.StormID, r.PointID)
		}
	}
	return p
}

// ── Phase 4: Unit cross-checks ──

func validateUnits(records []feature.Record) *phase {
	p := &phase{name: "Phase 4: Unit cross-checks"}
	for i := range records {
		r := &records[i]
		if r.DistanceToTrackNM < 0 {
			p.errorf("record %d: negative distance_to_track_nm", i)
		}
		wantKM := geo.NMToKM(r.DistanceToTrackNM)
		if math.Abs(r.DistanceToTrackKM-wantKM) > 0.01 {
			p.errorf("record %d: distance km %.4f does not match nm %.4f (expected %.4f)",
				i, r.DistanceToTrackKM, r.DistanceToTrackNM, wantKM)
		}
		if r.MaxWindKt < 0 || r.MaxWindKt > 200 {
			p.errorf("record %d: implausible max wind %.1f kt", i, r.MaxWindKt)
		}
		if r.MaxWindKt > r.CenterWindKt+1e-6 {
			p.errorf("record %d: max wind %.1f exceeds center wind %.1f", i, r.MaxWindKt, r.CenterWindKt)
		}
	}
	return p
}
