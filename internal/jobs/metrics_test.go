package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	assert.NoError(t, metrics.Track("dashboard:health_sample").End(nil))
	failure := errors.New("refused")
	assert.Equal(t, failure, metrics.Track("dashboard:health_sample").End(failure))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues("dashboard:health_sample", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues("dashboard:health_sample", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.failures.WithLabelValues("dashboard:health_sample")))
}

func TestNilMetricsTrackerPassesErrorThrough(t *testing.T) {
	var metrics *Metrics
	failure := errors.New("boom")
	assert.Equal(t, failure, metrics.Track("x").End(failure))
}
