package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "labour_insights"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Dataset cache metrics.
	CacheLookups  *prometheus.CounterVec // labels: result={hit,miss,stale,corrupt}
	Fetches       *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram
	DatasetRows   prometheus.Gauge

	// Series extraction metrics.
	SeriesRequests    *prometheus.CounterVec // labels: outcome={success,invalid_region,error}
	ExtractDuration   prometheus.Histogram
	RefreshNotifyErrs prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.CacheLookups,
		m.Fetches,
		m.FetchDuration,
		m.DatasetRows,
		m.SeriesRequests,
		m.ExtractDuration,
		m.RefreshNotifyErrs,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_fetches_total",
			Help:      "Source archive downloads by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of a source archive download and parse.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Row count of the most recently loaded dataset.",
		}),
		SeriesRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_requests_total",
			Help:      "Series extractions by outcome.",
		}, []string{"outcome"}),
		ExtractDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "series_extract_duration_seconds",
			Help:      "Duration of filtering one series out of a loaded dataset.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RefreshNotifyErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_notify_errors_total",
			Help:      "Failed dataset refresh notifications.",
		}),
	}
}
