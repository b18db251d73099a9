package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRegistersEverything(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterProgramsSaved.Inc()
	m.CounterSessionsCompleted.Add(2)
	m.CounterRequests.WithLabelValues("GET", "/api/v1/me", "200").Inc()
	m.HistRequestDuration.WithLabelValues("/api/v1/me").Observe(0.02)
	m.GaugeRequests.Set(1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterProgramsSaved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterSessionsCompleted))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CounterAssessmentsRecorded))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["fitcoach_test_server_requests_total"])
	assert.True(t, names["fitcoach_test_server_request_duration_seconds"])
}

func TestManagersDoNotShareRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}
