package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts calls and attempts. A nil *Metrics records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "acssigner"
	}
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "attempts_total",
			Help:      "Signed HTTP attempts sent upstream, by action and status code.",
		}, []string{"action", "code"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Completed calls after retries, by action and outcome.",
		}, []string{"action", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Duration of calls including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.calls, m.latency)
	}
	return m
}

func (m *Metrics) observeAttempt(action string, status int) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.attempts.WithLabelValues(action, code).Inc()
}

func (m *Metrics) observeCall(action string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(action, outcome).Inc()
	m.latency.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
