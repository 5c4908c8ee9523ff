package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Unregistered(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Fetches.WithLabelValues("success").Inc()
	a.DatasetRows.Set(42)

	assert.InDelta(t, 1, testutil.ToFloat64(a.Fetches.WithLabelValues("success")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Fetches.WithLabelValues("success")), 0)
	assert.InDelta(t, 42, testutil.ToFloat64(a.DatasetRows), 0)
}

func TestMetricNames(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.CacheLookups))
	require.NoError(t, reg.Register(m.SeriesRequests))
	require.NoError(t, reg.Register(m.RefreshNotifyErrs))

	m.CacheLookups.WithLabelValues("hit").Inc()
	m.SeriesRequests.WithLabelValues("invalid_region").Inc()

	assert.Equal(t, 2, testutil.CollectAndCount(reg,
		"labour_insights_cache_lookups_total",
		"labour_insights_series_requests_total",
	))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RefreshNotifyErrs))
}
