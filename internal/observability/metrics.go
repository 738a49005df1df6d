package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// benchmark runner.
type Metrics struct {
	ScenariosTotal   *prometheus.CounterVec // labels: motion, method, outcome
	ScenarioDuration *prometheus.HistogramVec
	RelativeRMSE     *prometheus.GaugeVec // labels: motion, method
	SuiteRuns        prometheus.Counter
	SuiteDuration    prometheus.Histogram
	BenchRunning     prometheus.Gauge
	ResultsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all benchmark metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScenariosTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "motion_bench",
			Name:      "scenarios_total",
			Help:      "Scenario runs by motion type, estimator, and outcome.",
		}, []string{"motion", "method", "outcome"}),
		ScenarioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "motion_bench",
			Name:      "scenario_duration_seconds",
			Help:      "Duration of a single build-synthesize-estimate-score scenario.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"method"}),
		RelativeRMSE: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "motion_bench",
			Name:      "relative_rmse_percent",
			Help:      "Latest relative RMSE (percent) per motion type and estimator.",
		}, []string{"motion", "method"}),
		SuiteRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "motion_bench",
			Name:      "suite_runs_total",
			Help:      "Completed benchmark suite runs.",
		}),
		SuiteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "motion_bench",
			Name:      "suite_duration_seconds",
			Help:      "Duration of a complete scenario-matrix run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		BenchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "motion_bench",
			Name:      "running",
			Help:      "1 when the benchmark runner is active, 0 when shut down.",
		}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "motion_bench",
			Name:      "results_published_total",
			Help:      "Results written to the Kafka sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "motion_bench",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a result batch.",
		}),
	}

	prometheus.MustRegister(
		m.ScenariosTotal,
		m.ScenarioDuration,
		m.RelativeRMSE,
		m.SuiteRuns,
		m.SuiteDuration,
		m.BenchRunning,
		m.ResultsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ScenariosTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "motion_bench", Name: "scenarios_total"}, []string{"motion", "method", "outcome"}),
		ScenarioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "motion_bench", Name: "scenario_duration_seconds"}, []string{"method"}),
		RelativeRMSE:     prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "motion_bench", Name: "relative_rmse_percent"}, []string{"motion", "method"}),
		SuiteRuns:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "motion_bench", Name: "suite_runs_total"}),
		SuiteDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "motion_bench", Name: "suite_duration_seconds"}),
		BenchRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "motion_bench", Name: "running"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "motion_bench", Name: "results_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "motion_bench", Name: "publish_errors_total"}),
	}
}
