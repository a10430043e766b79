package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// feature-extraction batch.
type Metrics struct {
	StormsProcessed prometheus.Counter
	StormsSkipped   prometheus.Counter
	PointsEvaluated prometheus.Counter
	RecordsEmitted  prometheus.Counter
	PointErrors     prometheus.Counter
	ExtractRunning  prometheus.Gauge

	EnvelopeBuildDuration prometheus.Histogram
	PointDuration         prometheus.Histogram
	StormDuration         prometheus.Histogram

	// Wind-model provenance. Labels: source={rmw_plateau,rmw_decay_to_64kt,...}
	WindSource *prometheus.CounterVec
}

// NewMetrics creates and registers all batch metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.StormsProcessed,
		m.StormsSkipped,
		m.PointsEvaluated,
		m.RecordsEmitted,
		m.PointErrors,
		m.ExtractRunning,
		m.EnvelopeBuildDuration,
		m.PointDuration,
		m.StormDuration,
		m.WindSource,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registration, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	const ns = "hurricane_features"
	return &Metrics{
		StormsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "storms_processed_total",
			Help:      "Storms whose feature extraction completed.",
		}),
		StormsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "storms_skipped_total",
			Help:      "Storms skipped because no coverage envelope could be built.",
		}),
		PointsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "points_evaluated_total",
			Help:      "Target points evaluated against a storm, pre-filter included.",
		}),
		RecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "records_emitted_total",
			Help:      "Feature records surviving the minimum-duration filter.",
		}),
		PointErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "point_errors_total",
			Help:      "Per-point estimation failures (point skipped, storm continues).",
		}),
		ExtractRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "extract_running",
			Help:      "1 while a batch extraction is active, 0 when finished.",
		}),
		EnvelopeBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "envelope_build_duration_seconds",
			Help:      "Time to build one storm's coverage envelope.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		PointDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "point_duration_seconds",
			Help:      "Time to extract the full feature vector for one target point.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		StormDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "storm_duration_seconds",
			Help:      "Time to process all target points for one storm.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		WindSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "wind_source_total",
			Help:      "Emitted records by wind-model provenance rule.",
		}, []string{"source"}),
	}
}
