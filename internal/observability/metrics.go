package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "trip_recommender"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the global default.
type Metrics struct {
	registry *prometheus.Registry

	recommendationRequests *prometheus.CounterVec
	recommendationDuration *prometheus.HistogramVec
	recommendationCount    prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		recommendationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "recommendation_requests_total",
			Help:      "Recommendation requests by outcome and cache hit.",
		}, []string{"outcome", "cached"}),
		recommendationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time to produce a recommendation result.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		recommendationCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "recommendations_returned",
			Help:      "Recommendations returned per request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.recommendationRequests,
		m.recommendationDuration,
		m.recommendationCount,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) ObserveRecommendationRequest(outcome string, cached bool, duration time.Duration, count int) {
	if m == nil {
		return
	}
	m.recommendationRequests.WithLabelValues(outcome, strconv.FormatBool(cached)).Inc()
	m.recommendationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.recommendationCount.Observe(float64(count))
}

// ObserveHTTPRequest records one finished request. route is the mux pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
