package lifecycle

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"beanmapper/internal/settings"
	"beanmapper/internal/stats"
)

func TestRuntime_RefCounting(t *testing.T) {
	s := settings.Default()
	s.StatisticsEnabled = true
	mgr := stats.NewManager(false)
	r := NewRuntime(s, mgr, nil, zaptest.NewLogger(t))

	require.NoError(t, r.Acquire())
	assert.True(t, mgr.Enabled(), "first acquire applies settings")
	require.NoError(t, r.Acquire())
	assert.Equal(t, 2, r.Refs())

	mgr.Increment(stats.MapperInstancesCount)

	r.Release()
	assert.Equal(t, 1, r.Refs())
	assert.InDelta(t, 1, mgr.Value(stats.MapperInstancesCount), 0, "stats survive while referenced")

	r.Release()
	assert.Zero(t, r.Refs())
	assert.Zero(t, mgr.Value(stats.MapperInstancesCount), "last release clears stats")

	r.Release()
	assert.Zero(t, r.Refs(), "extra release is ignored")
}

func TestRuntime_AutoregisterMetrics(t *testing.T) {
	s := settings.Default()
	s.AutoregisterMetrics = true
	mgr := stats.NewManager(true)
	reg := prometheus.NewRegistry()
	r := NewRuntime(s, mgr, reg, nil)

	require.NoError(t, r.Acquire())

	for _, c := range mgr.Collectors() {
		err := reg.Register(c)
		var are prometheus.AlreadyRegisteredError
		require.ErrorAs(t, err, &are, "collector should already be registered")
	}

	r.Release()

	for _, c := range mgr.Collectors() {
		assert.False(t, reg.Unregister(c), "last release unregisters")
	}
}

func TestRuntime_Reinitializes(t *testing.T) {
	s := settings.Default()
	mgr := stats.NewManager(true)
	r := NewRuntime(s, mgr, nil, nil)

	require.NoError(t, r.Acquire())
	assert.False(t, mgr.Enabled())
	r.Release()

	mgr.SetEnabled(true)
	require.NoError(t, r.Acquire())
	assert.False(t, mgr.Enabled(), "a new first reference applies settings again")
	r.Release()
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Same(t, stats.Global(), Default().Stats())
}
