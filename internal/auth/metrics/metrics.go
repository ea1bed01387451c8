// Package metrics exposes Prometheus counters for auth operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation names.
const (
	OpRegister  = "register"
	OpLogin     = "login"
	OpLogout    = "logout"
	OpListUsers = "list_users"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // a guard failed
	OutcomeError    = "error"    // infrastructure failure
	OutcomeNoop     = "noop"     // logout without a session
)

// Metrics holds the auth collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	swept      prometheus.Counter
}

// New creates the collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doorman_auth_operations_total",
				Help: "Total number of auth operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "doorman_auth_operation_duration_seconds",
				Help:    "Auth operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doorman_auth_expired_sessions_deleted_total",
			Help: "Total number of expired sessions removed by housekeeping",
		}),
	}
	reg.MustRegister(m.operations, m.duration, m.swept)
	return m
}

// Observe records one finished operation.
func (m *Metrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SessionsSwept adds n to the housekeeping counter.
func (m *Metrics) SessionsSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.swept.Add(float64(n))
}
