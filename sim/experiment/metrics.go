package experiment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments replication runs. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Replications prometheus.Counter
	Failures     prometheus.Counter
	Visits       *prometheus.CounterVec
	Duration     prometheus.Histogram
}

// NewMetrics registers the run collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Replications: f.NewCounter(prometheus.CounterOpts{
			Name: "procsim_replications_total",
			Help: "Replications that completed successfully.",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "procsim_replication_failures_total",
			Help: "Replications aborted by an engine error.",
		}),
		Visits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "procsim_visits_total",
			Help: "Completed visits counted after warmup, by activity.",
		}, []string{"activity"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "procsim_replication_duration_seconds",
			Help:    "Wall-clock time of one replication.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *Metrics) observe(rows []ReplicationRow, seconds float64) {
	if m == nil {
		return
	}
	m.Replications.Inc()
	m.Duration.Observe(seconds)
	for _, r := range rows {
		m.Visits.WithLabelValues(r.Activity).Add(float64(r.Arrivals))
	}
}

func (m *Metrics) fail() {
	if m == nil {
		return
	}
	m.Failures.Inc()
}
