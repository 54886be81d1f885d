package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// extraction pipeline.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec // labels: method={model,pattern,none}, outcome={success,failure}
	ModelFallbacks     prometheus.Counter
	ExtractionDuration prometheus.Histogram

	// Model service metrics.
	ModelRequestDuration prometheus.Histogram
	ModelReachable       prometheus.Gauge
	CompletionCache      *prometheus.CounterVec // labels: result={hit,miss}

	BatchSize prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ExtractionsTotal,
		m.ModelFallbacks,
		m.ExtractionDuration,
		m.ModelRequestDuration,
		m.ModelReachable,
		m.CompletionCache,
		m.BatchSize,
	)
	return m
}

// NewMetricsForTesting creates Metrics with nothing registered to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ExtractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_parser",
			Name:      "extractions_total",
			Help:      "Completed extraction attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		ModelFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_parser",
			Name:      "model_fallbacks_total",
			Help:      "Model extraction failures that fell back to pattern rules.",
		}),
		ExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_parser",
			Name:      "extraction_duration_seconds",
			Help:      "Duration of a complete single-incident extraction.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ModelRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_parser",
			Name:      "model_request_duration_seconds",
			Help:      "Completion-service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ModelReachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "incident_parser",
			Name:      "model_reachable",
			Help:      "1 when the last reachability probe of the model service succeeded.",
		}),
		CompletionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_parser",
			Name:      "completion_cache_total",
			Help:      "Completion cache lookups by result.",
		}, []string{"result"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_parser",
			Name:      "batch_size",
			Help:      "Number of incidents per batch request.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}
}
