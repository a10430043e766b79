package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/hurricane-exposure/internal/duration"
	"github.com/couchcryptid/hurricane-exposure/internal/envelope"
	"github.com/couchcryptid/hurricane-exposure/internal/geo"
	"github.com/couchcryptid/hurricane-exposure/internal/observability"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
	"github.com/couchcryptid/hurricane-exposure/internal/wind"
)

// DefaultMinDurationHours drops feature rows with less than 15 minutes of
// exposure: below one interpolation interval the duration signal is noise.
const DefaultMinDurationHours = 0.25

// Config holds the orchestration tunables. Zero values fall back to
// production defaults at construction.
type Config struct {
	Threshold        track.Threshold
	Interval         time.Duration
	Alpha            float64
	MaxGap           int
	ArcPoints        int
	SmoothingDeg     float64
	EdgeBufferDeg    float64
	Workers          int
	MinDurationHours float64
}

// DefaultConfig returns the production extraction settings.
func DefaultConfig() Config {
	return Config{
		Threshold:        track.T64,
		Interval:         duration.DefaultInterval,
		Alpha:            envelope.DefaultAlpha,
		MaxGap:           envelope.DefaultMaxGap,
		ArcPoints:        envelope.DefaultArcPoints,
		SmoothingDeg:     envelope.DefaultSmoothingDeg,
		EdgeBufferDeg:    duration.DefaultEdgeBufferDeg,
		Workers:          runtime.NumCPU(),
		MinDurationHours: DefaultMinDurationHours,
	}
}

// Extractor runs the per-storm feature pipeline: build the coverage envelope
// once, pre-filter target points against it, then fan the survivors out over
// a worker pool of independent per-point estimations.
type Extractor struct {
	cfg     Config
	logger  *slog.Logger
	metrics *observability.Metrics

	totalStorms  atomic.Int64
	stormsDone   atomic.Int64
	currentStorm atomic.Value // string
}

// NewExtractor creates an Extractor with the given settings and
// observability.
func NewExtractor(cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Extractor {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = duration.DefaultInterval
	}
	return &Extractor{cfg: cfg, logger: logger, metrics: metrics}
}

// ExtractAll processes every storm against the shared point set, skipping
// storms that fail rather than aborting the batch. Results are sorted by
// (storm, point) for reproducible output.
func (x *Extractor) ExtractAll(ctx context.Context, storms []track.Track, points []TargetPoint) ([]Record, error) {
	x.metrics.ExtractRunning.Set(1)
	defer x.metrics.ExtractRunning.Set(0)
	x.totalStorms.Store(int64(len(storms)))

	var all []Record
	for _, t := range storms {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		x.currentStorm.Store(t.StormID)

		start := time.Now()
		records, err := x.ExtractStorm(ctx, t, points)
		if err != nil {
			if errors.Is(err, envelope.ErrNoCoverage) {
				x.logger.Info("storm has no wind-field coverage, skipping",
					"storm_id", t.StormID, "threshold", x.cfg.Threshold.String())
			} else {
				x.logger.Warn("storm extraction failed, skipping",
					"storm_id", t.StormID, "error", err)
			}
			x.stormsDone.Add(1)
			x.metrics.StormsSkipped.Inc()
			continue
		}

		x.stormsDone.Add(1)
		x.metrics.StormsProcessed.Inc()
		x.metrics.StormDuration.Observe(time.Since(start).Seconds())
		x.logger.Info("storm processed",
			"storm_id", t.StormID,
			"storm_name", t.Name,
			"records", len(records),
			"elapsed", time.Since(start))
		all = append(all, records...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].StormID != all[j].StormID {
			return all[i].StormID < all[j].StormID
		}
		return all[i].PointID < all[j].PointID
	})
	return all, nil
}

// Status reports batch progress for the status HTTP endpoint.
func (x *Extractor) Status(_ context.Context) map[string]any {
	current, _ := x.currentStorm.Load().(string)
	return map[string]any{
		"storms_total":  x.totalStorms.Load(),
		"storms_done":   x.stormsDone.Load(),
		"current_storm": current,
	}
}

// ExtractStorm builds one storm's envelope and extracts a feature record for
// every target point the storm's coverage reaches. Per-point estimation
// failures are logged and skipped; an envelope failure fails the storm.
func (x *Extractor) ExtractStorm(ctx context.Context, t track.Track, points []TargetPoint) ([]Record, error) {
	buildStart := time.Now()
	env, err := envelope.Build(t, envelope.Config{
		Threshold: x.cfg.Threshold,
		Alpha:     x.cfg.Alpha,
		MaxGap:    x.cfg.MaxGap,
		ArcPoints: x.cfg.ArcPoints,
	})
	if err != nil {
		return nil, fmt.Errorf("storm %s: %w", t.StormID, err)
	}
	x.metrics.EnvelopeBuildDuration.Observe(time.Since(buildStart).Seconds())

	cov := envelope.BuildCoverage(t, x.cfg.Threshold, x.cfg.Interval)
	windEst := wind.NewEstimator(t, env)
	durEst := duration.NewEstimator(t, env, cov, duration.Config{
		Threshold:     x.cfg.Threshold,
		Interval:      x.cfg.Interval,
		SmoothingDeg:  x.cfg.SmoothingDeg,
		EdgeBufferDeg: x.cfg.EdgeBufferDeg,
	})

	x.metrics.PointsEvaluated.Add(float64(len(points)))
	candidates := x.prefilter(points, env, cov)

	records := x.fanOut(ctx, t, candidates, env, windEst, durEst)

	sort.Slice(records, func(i, j int) bool { return records[i].PointID < records[j].PointID })
	x.metrics.RecordsEmitted.Add(float64(len(records)))
	return records, nil
}

// prefilter keeps the points the storm's geometry can possibly reach: inside
// the alpha-shape envelope or the exact coverage union. Cheap containment
// tests here spare the worker pool the full estimator stack for the vast
// majority of a national point grid.
func (x *Extractor) prefilter(points []TargetPoint, env *envelope.Envelope, cov *envelope.Coverage) []TargetPoint {
	var keep []TargetPoint
	for _, p := range points {
		pt := orb.Point{p.Lon, p.Lat}
		if env.Contains(pt) || cov.Contains(pt) {
			keep = append(keep, p)
		}
	}
	return keep
}

// fanOut runs the per-point estimation over a fixed-size worker pool. All
// inputs are read-only after construction, so workers share them without
// locking; only the result slice append is guarded.
func (x *Extractor) fanOut(ctx context.Context, t track.Track, points []TargetPoint, env *envelope.Envelope, windEst *wind.Estimator, durEst *duration.Estimator) []Record {
	jobs := make(chan TargetPoint)
	var (
		mu      sync.Mutex
		records []Record
		wg      sync.WaitGroup
	)

	workers := x.cfg.Workers
	if workers > len(points) && len(points) > 0 {
		workers = len(points)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				rec, ok := x.extractPoint(t, p, windEst, durEst)
				if !ok {
					continue
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
			}
		}()
	}

	for _, p := range points {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return records
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()
	return records
}

// extractPoint runs the three estimators for one point and assembles the
// record. Returns ok=false when the point should be dropped: estimation
// failed, or exposure fell below the minimum-duration cutoff.
func (x *Extractor) extractPoint(t track.Track, p TargetPoint, windEst *wind.Estimator, durEst *duration.Estimator) (Record, bool) {
	start := time.Now()
	defer func() {
		x.metrics.PointDuration.Observe(time.Since(start).Seconds())
	}()

	w, err := windEst.Estimate(p.Lat, p.Lon)
	if err != nil {
		// Prefiltered points can still fall outside the envelope when only
		// the coverage union reached them; that is a drop, not an error.
		if !errors.Is(err, wind.ErrOutOfCoverage) {
			x.logger.Warn("wind estimation failed, skipping point",
				"storm_id", t.StormID, "point_id", p.ID, "error", err)
			x.metrics.PointErrors.Inc()
		}
		return Record{}, false
	}

	d := durEst.Estimate(p.Lat, p.Lon)
	if d.DurationHours < x.cfg.MinDurationHours {
		return Record{}, false
	}

	lead := track.EstimateLeadTimes(t, w.ApproachTime)

	rec := Record{
		PointID:   p.ID,
		StormID:   t.StormID,
		StormName: t.Name,

		DistanceToTrackNM: w.DistanceNM,
		DistanceToTrackKM: geo.NMToKM(w.DistanceNM),
		NearestQuadrant:   w.Quadrant.String(),
		ApproachTime:      w.ApproachTime,
		BoundaryImputed:   w.BoundaryImputed,

		MaxWindKt:     w.MaxWindKt,
		CenterWindKt:  w.CenterWindKt,
		RMWUsedNM:     w.RMWUsedNM,
		InsideEyewall: w.InsideEyewall,
		WindSource:    w.Source.String(),

		DurationHours:      d.DurationHours,
		FirstEntry:         d.FirstEntry,
		LastExit:           d.LastExit,
		ContinuousExposure: d.Continuous,
		DurationSource:     d.Source.String(),

		GeneratedAt: clock.Now().UTC(),
	}
	rec.setLeadTimes(lead.Hours)

	x.metrics.WindSource.WithLabelValues(rec.WindSource).Inc()
	return rec, true
}
