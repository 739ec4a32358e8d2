package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records outcomes for the outbox publisher loop.
type OutboxMetrics struct {
	published prometheus.Counter
	failed    prometheus.Counter
	batchTime prometheus.Histogram
}

// NewOutboxMetrics registers the outbox publisher metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully published to Pub/Sub.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox events that failed to publish.",
	})
	batchTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(published, failed, batchTime)
	return &OutboxMetrics{
		published: published,
		failed:    failed,
		batchTime: batchTime,
	}
}

// IncPublished increments the published event counter.
func (m *OutboxMetrics) IncPublished() {
	if m == nil || m.published == nil {
		return
	}
	m.published.Inc()
}

// IncFailed increments the failed event counter.
func (m *OutboxMetrics) IncFailed() {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Inc()
}

// ObserveBatch records the duration of a publish batch.
func (m *OutboxMetrics) ObserveBatch(elapsed time.Duration) {
	if m == nil || m.batchTime == nil {
		return
	}
	m.batchTime.Observe(elapsed.Seconds())
}
