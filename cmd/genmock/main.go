// Command genmock generates deterministic synthetic HURDAT2 and target-point
// fixtures for tests and local runs. The storms exercise the interesting
// paths: a major hurricane with full radii, a weakening storm whose radii
// drop out mid-track (imputation), and a tropical storm that never reaches
// 64 kt (no coverage at the default threshold).
//
// Usage:
//
//	go run ./cmd/genmock -hurdat-out testdata/storms.txt -points-out testdata/points.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	hurdatOut := flag.String("hurdat-out", "", "output path for the synthetic HURDAT2 file")
	pointsOut := flag.String("points-out", "", "output path for the target-point CSV")
	flag.Parse()

	if *hurdatOut == "" || *pointsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -hurdat-out, -points-out")
	}

	hurdat := buildHurdat()
	if err := writeFile(*hurdatOut, hurdat); err != nil {
		return fmt.Errorf("writing hurdat fixture: %w", err)
	}
	log.Printf("wrote hurdat fixture: %s", *hurdatOut)

	points := buildPoints()
	if err := writeFile(*pointsOut, points); err != nil {
		return fmt.Errorf("writing points fixture: %w", err)
	}
	log.Printf("wrote points fixture: %s", *pointsOut)
	return nil
}

// obsSpec is one synthetic observation before HURDAT2 formatting.
type obsSpec struct {
	t        time.Time
	status   string
	lat, lon float64
	wind     int
	pressure int
	r34      [4]int // NE SE SW NW, 0 = missing
	r50      [4]int
	r64      [4]int
	rmw      int
}

func buildHurdat() string {
	var b strings.Builder

	// AL902024 MOCKMAJOR: steady eastward mover at 100 kt, full radii,
	// RMW 20 nm. The workhorse fixture for wind/duration assertions.
	major := make([]obsSpec, 0, 9)
	start := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		major = append(major, obsSpec{
			t:        start.Add(time.Duration(i) * 6 * time.Hour),
			status:   "HU",
			lat:      25.0,
			lon:      -80.0 + float64(i)*1.0,
			wind:     100,
			pressure: 950,
			r34:      [4]int{120, 120, 120, 120},
			r50:      [4]int{80, 80, 80, 80},
			r64:      [4]int{50, 50, 50, 50},
			rmw:      20,
		})
	}
	writeStorm(&b, "AL902024", "MOCKMAJOR", major)

	// AL912024 MOCKDECAY: intensifies then loses its 64 kt radii after
	// landfall while staying a hurricane, so imputation has to carry the
	// field through the back half.
	decay := make([]obsSpec, 0, 8)
	for i := 0; i < 8; i++ {
		o := obsSpec{
			t:        start.Add(time.Duration(i) * 6 * time.Hour),
			status:   "HU",
			lat:      28.0 + float64(i)*0.5,
			lon:      -90.0,
			wind:     90 - i*5,
			pressure: 960 + i*3,
			r34:      [4]int{100, 100, 90, 90},
			r50:      [4]int{60, 60, 55, 55},
			rmw:      25,
		}
		if i < 4 {
			o.r64 = [4]int{40 - i*2, 40 - i*2, 35 - i*2, 35 - i*2}
		}
		decay = append(decay, o)
	}
	decay[3].lat = 29.5 // landfall kink
	writeStorm(&b, "AL912024", "MOCKDECAY", decay)

	// AL922024 MOCKWEAK: peaks at 50 kt, no 64 kt radii at all. Should be
	// skipped entirely at the default threshold.
	weak := make([]obsSpec, 0, 6)
	for i := 0; i < 6; i++ {
		weak = append(weak, obsSpec{
			t:        start.Add(time.Duration(i) * 6 * time.Hour),
			status:   "TS",
			lat:      20.0,
			lon:      -60.0 + float64(i)*0.8,
			wind:     40 + min(i, 2)*5,
			pressure: 1000,
			r34:      [4]int{60, 60, 50, 50},
			rmw:      0,
		})
	}
	writeStorm(&b, "AL922024", "MOCKWEAK", weak)

	return b.String()
}

func writeStorm(b *strings.Builder, id, name string, obs []obsSpec) {
	fmt.Fprintf(b, "%s,%19s,%7d,\n", id, name, len(obs))
	for _, o := range obs {
		fmt.Fprintf(b, "%s, %s,%s, %s, %s, %s, %3d, %4d",
			o.t.Format("20060102"), o.t.Format("1504"), "", o.status,
			formatLat(o.lat), formatLon(o.lon), o.wind, o.pressure)
		for _, set := range [3][4]int{o.r34, o.r50, o.r64} {
			for _, v := range set {
				fmt.Fprintf(b, ", %4d", sentinel(v))
			}
		}
		fmt.Fprintf(b, ", %4d,\n", sentinel(o.rmw))
	}
}

// sentinel maps 0 to the HURDAT2 missing marker so the fixtures look like
// the real database rather than pre-normalized data.
func sentinel(v int) int {
	if v == 0 {
		return -999
	}
	return v
}

func formatLat(lat float64) string {
	hemi := "N"
	if lat < 0 {
		hemi = "S"
	}
	return fmt.Sprintf("%.1f%s", math.Abs(lat), hemi)
}

func formatLon(lon float64) string {
	hemi := "E"
	if lon < 0 {
		hemi = "W"
	}
	return fmt.Sprintf("%.1f%s", math.Abs(lon), hemi)
}

// buildPoints lays a coarse grid over the MOCKMAJOR and MOCKDECAY corridors
// plus a handful of named probe points at known geometric offsets.
func buildPoints() string {
	var b strings.Builder
	b.WriteString("id,lat,lon\n")

	n := 0
	for lat := 23.0; lat <= 32.0; lat += 0.5 {
		for lon := -92.0; lon <= -70.0; lon += 0.5 {
			n++
			fmt.Fprintf(&b, "grid-%04d,%.2f,%.2f\n", n, lat, lon)
		}
	}

	// Probes: on the major storm's track, just north of it, and far away.
	fmt.Fprintf(&b, "probe-center,25.00,-76.00\n")
	fmt.Fprintf(&b, "probe-north-50nm,%.4f,-76.00\n", 25.0+50.0/60.0)
	fmt.Fprintf(&b, "probe-outside,45.00,-30.00\n")
	return b.String()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}
