package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	namespace = "beanmapper"

	labelType = "type"
	labelKey  = "key"

	// NoKey is the key used by Increment and AddDuration.
	NoKey = ""
)

// Manager counts statistics per type and key.
type Manager struct {
	enabled atomic.Bool

	registry *prometheus.Registry
	counters *prometheus.CounterVec
	// durations holds MAPPING_TIME style values, in seconds.
	durations *prometheus.CounterVec
}

// NewManager creates a manager with its own prometheus registry.
func NewManager(enabled bool) *Manager {
	m := &Manager{
		registry: prometheus.NewRegistry(),
		counters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statistics_total",
				Help:      "Mapping statistics by type and key",
			},
			[]string{labelType, labelKey},
		),
		durations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statistics_seconds_total",
				Help:      "Accumulated mapping time by type and key",
			},
			[]string{labelType, labelKey},
		),
	}

	m.registry.MustRegister(m.counters, m.durations)
	m.enabled.Store(enabled)

	return m
}

var (
	globalOnce sync.Once
	global     *Manager
)

// Global returns the process-wide manager, created disabled on first use.
func Global() *Manager {
	globalOnce.Do(func() {
		global = NewManager(false)
	})

	return global
}

// Enabled reports whether statistics are collected.
func (m *Manager) Enabled() bool {
	return m != nil && m.enabled.Load()
}

// SetEnabled switches collection on or off. Collected values are kept.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// Increment adds one to t.
func (m *Manager) Increment(t StatisticType) {
	m.IncrementKey(t, NoKey)
}

// IncrementKey adds one to t for key.
func (m *Manager) IncrementKey(t StatisticType, key string) {
	if !m.Enabled() {
		return
	}

	m.counters.WithLabelValues(string(t), key).Inc()
}

// AddDuration adds d to t.
func (m *Manager) AddDuration(t StatisticType, d time.Duration) {
	if !m.Enabled() {
		return
	}

	m.durations.WithLabelValues(string(t), NoKey).Add(d.Seconds())
}

// Value returns the sum of t over every key. Durations are in seconds.
func (m *Manager) Value(t StatisticType) float64 {
	var total float64
	for _, v := range m.Snapshot()[t] {
		total += v
	}

	return total
}

// ValueFor returns the value of t for key.
func (m *Manager) ValueFor(t StatisticType, key string) float64 {
	return m.Snapshot()[t][key]
}

// Snapshot returns every collected value by type and key.
func (m *Manager) Snapshot() map[StatisticType]map[string]float64 {
	out := make(map[StatisticType]map[string]float64)
	if m == nil {
		return out
	}

	families, err := m.registry.Gather()
	if err != nil {
		return out
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			t, key := labelsOf(metric)

			if out[t] == nil {
				out[t] = make(map[string]float64)
			}

			out[t][key] += metric.GetCounter().GetValue()
		}
	}

	return out
}

func labelsOf(metric *dto.Metric) (StatisticType, string) {
	var t, key string

	for _, lp := range metric.GetLabel() {
		switch lp.GetName() {
		case labelType:
			t = lp.GetValue()
		case labelKey:
			key = lp.GetValue()
		}
	}

	return StatisticType(t), key
}

// Clear drops every collected value.
func (m *Manager) Clear() {
	m.counters.Reset()
	m.durations.Reset()
}

// Collectors returns the prometheus collectors backing the manager, for
// registration with an external registry.
func (m *Manager) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.counters, m.durations}
}

// String renders a short summary for logs.
func (m *Manager) String() string {
	return fmt.Sprintf("stats(enabled=%t, success=%.0f, failure=%.0f)",
		m.Enabled(), m.Value(MappingSuccessCount), m.Value(MappingFailureCount))
}
