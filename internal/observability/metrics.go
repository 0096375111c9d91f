package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus metrics.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it. A private
	// registry avoids duplicate-collector panics when NewMetrics is called
	// more than once (e.g. in tests).
	Registry *prometheus.Registry

	requestDuration     *prometheus.HistogramVec
	requestsTotal       *prometheus.CounterVec
	cascadeTasksCreated prometheus.Counter
	noticesAnalyzed     prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests by method and path.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Count of HTTP requests by method, path and status.",
			},
			[]string{"method", "path", "status"},
		),
		cascadeTasksCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cascade_tasks_created_total",
				Help: "Tasks created by workflow cascades.",
			},
		),
		noticesAnalyzed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notices_analyzed_total",
				Help: "IRS notices run through analysis.",
			},
		),
	}
}

func (m *Metrics) ObserveRequest(method, path, status string, d time.Duration) {
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) AddCascadeTasks(n int) {
	m.cascadeTasksCreated.Add(float64(n))
}

func (m *Metrics) IncNoticesAnalyzed() {
	m.noticesAnalyzed.Inc()
}
