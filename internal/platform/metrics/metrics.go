package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shadeseat"

// Metrics groups the Prometheus collectors shared by the HTTP layer and the
// lookup adapters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPDuration    *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	UpstreamErrors  *prometheus.CounterVec
	Recommendations *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of HTTP requests",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by kind and result",
		}, []string{"kind", "result"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed calls to geocoding and routing services",
		}, []string{"service"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Seat recommendations served by side and time of day",
		}, []string{"side", "time_of_day"}),
	}
	reg.MustRegister(m.HTTPDuration, m.HTTPRequests, m.CacheLookups, m.UpstreamErrors, m.Recommendations)
	return m
}

func (m *Metrics) CacheHit(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CacheLookups.WithLabelValues(kind, "hit").Add(float64(n))
}

func (m *Metrics) CacheMiss(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CacheLookups.WithLabelValues(kind, "miss").Add(float64(n))
}

func (m *Metrics) UpstreamError(service string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(service).Inc()
}

func (m *Metrics) Recommendation(side, timeOfDay string) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues(side, timeOfDay).Inc()
}
