package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// UnmatchedRoute labels requests that matched no API route.
const UnmatchedRoute = "unmatched"

// HTTP Prometheus metrics, labeled by chi route pattern.
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "extsearch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extsearch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPResponseBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extsearch",
			Subsystem: "http",
			Name:      "response_bytes_total",
			Help:      "Bytes written in HTTP response bodies",
		},
		[]string{"route"},
	)
)

var httpMetricsRegistered bool

// RegisterHTTPMetrics registers the HTTP metrics on the default registry.
// Repeated calls are no-ops.
func RegisterHTTPMetrics() {
	if httpMetricsRegistered {
		return
	}
	prometheus.MustRegister(HTTPRequestDuration, HTTPRequestsTotal, HTTPResponseBytes)
	httpMetricsRegistered = true
}

// Register registers every server metric on the default registry.
func Register() {
	RegisterHTTPMetrics()
	RegisterSearchMetrics()
}

// Middleware records request duration, count and response size per route.
// The route is read after the handler ran, when chi has resolved the pattern.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := UnmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = routeLabel(rctx.RoutePattern())
			}
			code := strconv.Itoa(status)

			HTTPRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
			HTTPRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
			HTTPResponseBytes.WithLabelValues(route).Add(float64(ww.BytesWritten()))
		})
	}
}

// routeLabel turns a chi route pattern into a metric label. Subrouter index
// routes ("/documents/{id}/") lose their trailing slash.
func routeLabel(pattern string) string {
	if pattern == "" {
		return UnmatchedRoute
	}
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	return pattern
}
