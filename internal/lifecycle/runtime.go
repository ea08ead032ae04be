// Package lifecycle tracks how many mapper instances use the process-wide
// library state. The first instance initializes it, the last one tears it down.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"beanmapper/internal/logger"
	"beanmapper/internal/settings"
	"beanmapper/internal/stats"
)

// Runtime is the reference counted library state.
type Runtime struct {
	mu   sync.Mutex
	refs int

	settings   settings.Settings
	stats      *stats.Manager
	registerer prometheus.Registerer
	registered []prometheus.Collector
	base       *zap.Logger
	log        *zap.Logger
}

// NewRuntime creates a runtime. registerer may be nil when metrics are never
// exported; log may be nil.
func NewRuntime(s settings.Settings, mgr *stats.Manager, registerer prometheus.Registerer, log *zap.Logger) *Runtime {
	if log == nil {
		log = zap.NewNop()
	}

	return &Runtime{
		settings:   s,
		stats:      mgr,
		registerer: registerer,
		base:       log,
		log:        log.Named(logger.ComponentLifecycle),
	}
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process-wide runtime. Its settings come from the
// environment; invalid values fall back to the defaults.
func Default() *Runtime {
	defaultOnce.Do(func() {
		s, err := settings.Load("")
		if err != nil {
			s = settings.Default()
		}

		log := logger.New(s.LogLevel, logger.LogFormat(s.LogFormat))
		if err != nil {
			log.Warn("Invalid settings in environment, using defaults", zap.Error(err))
		}

		defaultRuntime = NewRuntime(s, stats.Global(), prometheus.DefaultRegisterer, log)
	})

	return defaultRuntime
}

// Settings returns the settings the runtime was created with.
func (r *Runtime) Settings() settings.Settings {
	return r.settings
}

// Stats returns the statistics manager of the runtime.
func (r *Runtime) Stats() *stats.Manager {
	return r.stats
}

// Logger returns the logger mappers derive their own loggers from.
func (r *Runtime) Logger() *zap.Logger {
	return r.base
}

// Refs returns the number of live references.
func (r *Runtime) Refs() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.refs
}

// Acquire takes a reference. The first reference applies the statistics
// setting and registers the statistics collectors when metrics are exported.
func (r *Runtime) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		if err := r.init(); err != nil {
			return err
		}
	}

	r.refs++

	return nil
}

func (r *Runtime) init() error {
	r.stats.SetEnabled(r.settings.StatisticsEnabled)

	if r.settings.AutoregisterMetrics && r.registerer != nil {
		for _, c := range r.stats.Collectors() {
			if err := r.registerer.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if errors.As(err, &are) {
					continue
				}

				r.unregister()

				return fmt.Errorf("failed to register statistics collector: %w", err)
			}

			r.registered = append(r.registered, c)
		}
	}

	r.log.Info("Library initialized",
		zap.Bool("statistics", r.settings.StatisticsEnabled),
		zap.Bool("metrics", len(r.registered) > 0))

	return nil
}

// Release drops a reference. The last one unregisters the collectors and
// clears the statistics. Extra calls are ignored.
func (r *Runtime) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		return
	}

	r.refs--
	if r.refs > 0 {
		return
	}

	r.unregister()
	r.stats.Clear()

	r.log.Info("Library shut down")
}

func (r *Runtime) unregister() {
	for _, c := range r.registered {
		r.registerer.Unregister(c)
	}

	r.registered = nil
}
