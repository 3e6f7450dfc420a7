package relay

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRequestsTotal         = "laras_relay_requests_total"
	MetricRequestDuration       = "laras_relay_request_duration_seconds"
	MetricUpstreamAttemptsTotal = "laras_relay_upstream_attempts_total"
)

// Outcome labels of an upstream attempt.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics of the relay. All operations are thread-safe.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	attempts *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "Total number of relay requests by response status code",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRequestDuration,
				Help:    "Histogram of enhancement request duration in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
			},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricUpstreamAttemptsTotal,
				Help: "Total number of upstream model calls by model and outcome",
			},
			[]string{"model", "outcome"},
		),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.duration, m.attempts}
}

// Register registers all metrics with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
