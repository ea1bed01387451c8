package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe(OpLogin, OutcomeSuccess, 10*time.Millisecond)
	m.Observe(OpLogin, OutcomeSuccess, 10*time.Millisecond)
	m.Observe(OpLogin, OutcomeRejected, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(OpLogin, OutcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(OpLogin, OutcomeRejected)))
	require.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestSessionsSwept(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SessionsSwept(3)
	m.SessionsSwept(0)
	require.Equal(t, 3.0, testutil.ToFloat64(m.swept))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Observe(OpRegister, OutcomeError, time.Second)
		m.SessionsSwept(5)
	})
}

func TestRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Observe(OpLogout, OutcomeNoop, 0)
	m.SessionsSwept(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["doorman_auth_operations_total"])
	require.True(t, names["doorman_auth_operation_duration_seconds"])
	require.True(t, names["doorman_auth_expired_sessions_deleted_total"])
}
