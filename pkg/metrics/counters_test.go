package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevars/pkg/metrics"
)

func TestPrometheusName(t *testing.T) {
	assert.Equal(t, "engine_job_acquired_success_total", metrics.PrometheusName("engine", metrics.JobAcquiredSuccess))
	assert.Equal(t, "job_failed_total", metrics.PrometheusName("", metrics.JobFailed))
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, err := metrics.NewCounters(metrics.Default(), reg, "engine")
	require.NoError(t, err)

	require.NoError(t, counters.Inc(metrics.JobAcquisitionAttempt))
	require.NoError(t, counters.Inc(metrics.JobAcquisitionAttempt))
	require.NoError(t, counters.Add(metrics.JobAcquiredSuccess, 5))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, metrics.Default().Len(), count)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		values[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, values["engine_job_acquisition_attempt_total"])
	assert.Equal(t, 5.0, values["engine_job_acquired_success_total"])
	assert.Equal(t, 0.0, values["engine_job_locked_exclusive_total"])
}

func TestCountersRejectUnknownAndNegative(t *testing.T) {
	counters, err := metrics.NewCounters(metrics.Default(), prometheus.NewRegistry(), "")
	require.NoError(t, err)

	require.ErrorIs(t, counters.Inc("job-lost"), metrics.ErrUnknownName)
	require.Error(t, counters.Add(metrics.JobFailed, -1))
	assert.Same(t, metrics.Default(), counters.Catalogue())
}

func TestNewCountersDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewCounters(metrics.Default(), reg, "engine")
	require.NoError(t, err)

	_, err = metrics.NewCounters(metrics.Default(), reg, "engine")
	require.Error(t, err)
}

func TestNewCountersRequiresDependencies(t *testing.T) {
	_, err := metrics.NewCounters(nil, prometheus.NewRegistry(), "")
	require.Error(t, err)
	_, err = metrics.NewCounters(metrics.Default(), nil, "")
	require.Error(t, err)
}
