// Package metrics exposes Prometheus metrics for the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	viewIncrements  prometheus.Counter
	uploadBytes     prometheus.Counter
}

// New creates and registers all API metrics
func New() *Metrics {
	return &Metrics{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_requests_total",
				Help: "Total number of HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		viewIncrements: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "portfolio_view_increments_total",
				Help: "Total number of successful project view-count increments",
			},
		),
		uploadBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "portfolio_upload_bytes_total",
				Help: "Total bytes accepted through image uploads",
			},
		),
	}
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, path, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementViews records one successful view-count bump
func (m *Metrics) IncrementViews() {
	m.viewIncrements.Inc()
}

// AddUploadBytes records the size of an accepted upload
func (m *Metrics) AddUploadBytes(n int64) {
	m.uploadBytes.Add(float64(n))
}
