package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClaimMetrics records claim attempt outcomes and latency.
type ClaimMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewClaimMetrics registers the claim metrics on the provided registerer.
func NewClaimMetrics(reg prometheus.Registerer) *ClaimMetrics {
	if reg == nil {
		return &ClaimMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "claim_duration_seconds",
		Help:    "Duration of claim attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_success",
		Help: "Successful share claims.",
	}, []string{"store"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_failure",
		Help: "Rejected share claims by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, success, failure)
	return &ClaimMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the latency of a claim attempt.
func (c *ClaimMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named store.
func (c *ClaimMetrics) IncSuccess(store string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(store)).Inc()
}

// IncFailure increments the failure counter for the given reason.
func (c *ClaimMetrics) IncFailure(reason string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
