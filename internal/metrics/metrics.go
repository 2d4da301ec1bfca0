package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the dashboard's prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	uploads         *prometheus.CounterVec
	uploadBytes     prometheus.Counter
}

func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		Registry: registry,
		backendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esg_backend_requests_total",
				Help: "Total number of requests sent to the ESG backend",
			},
			[]string{"endpoint", "status"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "esg_backend_request_duration_seconds",
				Help:    "Latency of ESG backend requests",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"endpoint"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esg_uploads_total",
				Help: "ZIP uploads by outcome",
			},
			[]string{"outcome"},
		),
		uploadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "esg_upload_bytes_total",
				Help: "Bytes of ZIP archives forwarded to the backend",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.backendRequests,
		m.backendDuration,
		m.uploads,
		m.uploadBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveBackend records one backend call. status is 0 when no response
// was received.
func (m *Metrics) ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(endpoint, label).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveUpload records a finished upload attempt.
func (m *Metrics) ObserveUpload(succeeded bool, bytes int64) {
	if m == nil {
		return
	}
	outcome := "failed"
	if succeeded {
		outcome = "succeeded"
		m.uploadBytes.Add(float64(bytes))
	}
	m.uploads.WithLabelValues(outcome).Inc()
}
