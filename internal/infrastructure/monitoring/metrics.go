package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	QueryDuration   *prometheus.HistogramVec
	QueryErrors     *prometheus.CounterVec
	CacheAccess     *prometheus.CounterVec
	PromptChecks    *prometheus.CounterVec
	UpstreamRetries prometheus.Counter
}

// NewMetrics creates the Prometheus metrics and registers them on the
// default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on the given registerer. Tests
// pass a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reporting_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"path", "method", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reporting_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reporting_query_duration_seconds",
				Help:    "Latency of aggregation queries.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		QueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reporting_query_errors_total",
				Help: "Total number of failed aggregation queries.",
			},
			[]string{"query"},
		),
		CacheAccess: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reporting_cache_access_total",
				Help: "Report cache lookups by result.",
			},
			[]string{"result"},
		),
		PromptChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reporting_prompt_checks_total",
				Help: "Prompt filter verdicts by outcome.",
			},
			[]string{"outcome"},
		),
		UpstreamRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reporting_prompt_filter_retries_total",
				Help: "Retries against the prompt filter service.",
			},
		),
	}
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(path, method string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordQuery records an aggregation query execution.
func (m *Metrics) RecordQuery(query string, duration time.Duration, err error) {
	m.QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		m.QueryErrors.WithLabelValues(query).Inc()
	}
}

// RecordCacheAccess records a report cache lookup.
func (m *Metrics) RecordCacheAccess(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheAccess.WithLabelValues(result).Inc()
}

// RecordPromptCheck records a prompt filter verdict.
func (m *Metrics) RecordPromptCheck(outcome string) {
	m.PromptChecks.WithLabelValues(outcome).Inc()
}

// RecordUpstreamRetry records one retry against the prompt filter service.
func (m *Metrics) RecordUpstreamRetry() {
	m.UpstreamRetries.Inc()
}
