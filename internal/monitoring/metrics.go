package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the service.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploadsTotal    prometheus.Counter
	filesUploaded   prometheus.Counter
	deletionsTotal  prometheus.Counter
	emailsTotal     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sideline_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sideline_http_request_duration_seconds",
			Help:    "HTTP request duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		uploadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sideline_batch_uploads_total",
			Help: "Successful batch uploads.",
		}),
		filesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "sideline_files_uploaded_total",
			Help: "Files stored across all batch uploads.",
		}),
		deletionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sideline_batch_deletions_total",
			Help: "Batches deleted.",
		}),
		emailsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sideline_contact_emails_total",
			Help: "Contact emails by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordUpload(fileCount int) {
	m.uploadsTotal.Inc()
	m.filesUploaded.Add(float64(fileCount))
}

func (m *Metrics) RecordDeletion(count int) {
	m.deletionsTotal.Add(float64(count))
}

func (m *Metrics) RecordEmail(outcome string) {
	m.emailsTotal.WithLabelValues(outcome).Inc()
}

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
