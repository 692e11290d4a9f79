package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	HitsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "extsearch",
			Name:      "hits_skipped_total",
			Help:      "Search hits skipped for lacking a metadata mapping",
		},
	)

	HighlightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extsearch",
			Name:      "highlights_total",
			Help:      "Emphasized spans by resolution outcome",
		},
		[]string{"status"}, // "resolved" / "dropped"
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "extsearch",
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"driver", "op"},
	)

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extsearch",
			Name:      "backend_errors_total",
			Help:      "Failed search backend requests",
		},
		[]string{"driver", "op"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(HitsSkippedTotal)
	prometheus.MustRegister(HighlightsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(BackendErrorsTotal)
	searchMetricsRegistered = true
}

// SearchRecorder records assembly counters of the search service.
type SearchRecorder struct{}

// HitsSkipped counts hits dropped from a batch.
func (SearchRecorder) HitsSkipped(n int) {
	if n > 0 {
		HitsSkippedTotal.Add(float64(n))
	}
}

// Highlights counts resolved and dropped emphasized spans.
func (SearchRecorder) Highlights(resolved, dropped int) {
	if resolved > 0 {
		HighlightsTotal.WithLabelValues("resolved").Add(float64(resolved))
	}
	if dropped > 0 {
		HighlightsTotal.WithLabelValues("dropped").Add(float64(dropped))
	}
}

// ObserveBackend records the duration and outcome of one backend call.
func ObserveBackend(driver, op string, start time.Time, err error) {
	BackendRequestDuration.WithLabelValues(driver, op).Observe(time.Since(start).Seconds())
	if err != nil {
		BackendErrorsTotal.WithLabelValues(driver, op).Inc()
	}
}
