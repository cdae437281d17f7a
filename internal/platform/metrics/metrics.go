package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds HTTP-level instrumentation shared across routes.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New registers the HTTP metrics on the default registry. Call once at
// startup.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "haven_http_request_duration_ms",
				Help:    "HTTP request duration in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500, 1000, 5000},
			},
			[]string{"method", "path"},
		),
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "haven_http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	ms := float64(duration.Microseconds()) / 1000.0
	m.RequestDuration.WithLabelValues(method, path).Observe(ms)
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
