package mapper

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"beanmapper/builder"
	"beanmapper/internal/cache"
	"beanmapper/internal/classmap"
	"beanmapper/internal/common"
	"beanmapper/internal/engine"
	"beanmapper/internal/lifecycle"
	"beanmapper/internal/loader"
	"beanmapper/internal/logger"
	"beanmapper/internal/mapping"
	"beanmapper/internal/settings"
	"beanmapper/internal/stats"
)

var (
	// ErrAlreadyInitialized is returned by configuration methods once the
	// rule set has been loaded.
	ErrAlreadyInitialized = errors.New("mapper is already initialized")
	// ErrDestroyed is returned by every call on a destroyed mapper.
	ErrDestroyed = errors.New("mapper is destroyed")
)

// State is the lifecycle state of a BeanMapper.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateInitialized
	StateDestroyed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateDestroyed:
		return "destroyed"
	default:
		return common.UnknownStr
	}
}

// BeanMapper maps beans with a rule set loaded once, on first use.
type BeanMapper struct {
	id       string
	runtime  *lifecycle.Runtime
	settings *settings.Settings
	stats    *stats.Manager
	caches   *cache.Manager
	loader   loader.Loader
	baseLog  *zap.Logger
	log      *zap.Logger

	// mu guards the configuration below and serializes the load.
	mu          sync.Mutex
	initialized atomic.Bool
	destroyed   atomic.Bool
	state       atomic.Int32

	files          []string
	types          []any
	pending        []*classmap.MappingFileData
	converters     []CustomConverter
	convertersByID map[string]CustomConverter
	listeners      []EventListener
	fieldMapper    CustomFieldMapper
	factories      map[string]BeanFactory

	// Written once by the load, read-only once initialized is set.
	mappings *classmap.ClassMappings
	global   classmap.Configuration
}

// New creates a mapper. It takes a reference on the library runtime, creates
// the mapper's cache regions and counts the instance. Mapping rules are not
// loaded until the first mapping call.
func New(opts ...Option) (*BeanMapper, error) {
	m := &BeanMapper{
		id:             uuid.NewString(),
		caches:         cache.NewManager(),
		convertersByID: make(map[string]CustomConverter),
		factories:      make(map[string]BeanFactory),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to configure mapper: %w", err)
		}
	}

	if m.runtime == nil {
		m.runtime = lifecycle.Default()
	}

	if m.settings == nil {
		s := m.runtime.Settings()
		m.settings = &s
	}

	if m.stats == nil {
		m.stats = m.runtime.Stats()
	}

	if m.baseLog == nil {
		m.baseLog = m.runtime.Logger()
	}

	m.log = m.baseLog.Named(logger.ComponentMapper).With(zap.String("mapper_id", m.id))

	if err := m.runtime.Acquire(); err != nil {
		return nil, fmt.Errorf("failed to initialize library: %w", err)
	}

	if err := m.caches.AddCache(cache.ConverterByDestType, m.settings.ConverterByDestTypeCacheSize); err != nil {
		m.runtime.Release()

		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if err := m.caches.AddCache(cache.SuperTypeCheck, m.settings.SuperTypeCheckCacheSize); err != nil {
		m.runtime.Release()

		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	m.stats.Increment(stats.MapperInstancesCount)

	m.log.Info("Mapper created",
		zap.Int("mapping_files", len(m.files)),
		zap.Int("converter_cache_size", m.settings.ConverterByDestTypeCacheSize),
		zap.Int("super_type_cache_size", m.settings.SuperTypeCheckCacheSize))

	return m, nil
}

// ID returns the instance id used in log entries.
func (m *BeanMapper) ID() string {
	return m.id
}

// State returns the current lifecycle state.
func (m *BeanMapper) State() State {
	return State(m.state.Load())
}

// Caches returns the mapper's own cache regions.
func (m *BeanMapper) Caches() *CacheManager {
	return m.caches
}

// Statistics returns the statistics registry the mapper records into.
func (m *BeanMapper) Statistics() *Statistics {
	return m.stats
}

// MappingFiles returns the configured mapping files.
func (m *BeanMapper) MappingFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.files...)
}

// Map maps src into the bean dst points to.
func (m *BeanMapper) Map(src, dst any) error {
	p, err := m.MappingProcessor()
	if err != nil {
		return err
	}

	return p.Map(src, dst)
}

// MapID maps src into dst with the class mapping named mapID.
func (m *BeanMapper) MapID(src, dst any, mapID string) error {
	p, err := m.MappingProcessor()
	if err != nil {
		return err
	}

	return p.MapID(src, dst, mapID)
}

// MapType creates a dstType value and maps src into it.
func (m *BeanMapper) MapType(src any, dstType reflect.Type) (any, error) {
	p, err := m.MappingProcessor()
	if err != nil {
		return nil, err
	}

	return p.MapType(src, dstType)
}

// MapTypeID creates a dstType value and maps src into it with the class
// mapping named mapID.
func (m *BeanMapper) MapTypeID(src any, dstType reflect.Type, mapID string) (any, error) {
	p, err := m.MappingProcessor()
	if err != nil {
		return nil, err
	}

	return p.MapTypeID(src, dstType, mapID)
}

// MapTo maps src into a new T.
func MapTo[T any](m Mapper, src any) (T, error) {
	return MapToID[T](m, src, "")
}

// MapToID maps src into a new T with the class mapping named mapID.
func MapToID[T any](m Mapper, src any, mapID string) (T, error) {
	var zero T

	res, err := m.MapTypeID(src, reflect.TypeFor[T](), mapID)
	if err != nil {
		return zero, err
	}

	return res.(T), nil
}

// Init loads the rule set now instead of on the first mapping call.
func (m *BeanMapper) Init(ctx context.Context) error {
	return m.ensureInit(ctx)
}

// MappingProcessor returns an engine handle for the loaded rule set, loading
// it first if needed. The handle records statistics when they are enabled at
// the time of the call.
func (m *BeanMapper) MappingProcessor() (Mapper, error) {
	if err := m.ensureInit(context.Background()); err != nil {
		return nil, err
	}

	p := engine.New(engine.Config{
		Mappings:       m.mappings,
		Global:         m.global,
		Caches:         m.caches,
		Stats:          m.stats,
		Converters:     m.converters,
		ConvertersByID: m.convertersByID,
		Listeners:      m.listeners,
		FieldMapper:    m.fieldMapper,
		Factories:      m.factories,
		Logger:         m.baseLog,
	})

	if m.stats.Enabled() {
		return stats.Intercept(p, m.stats), nil
	}

	return p, nil
}

// ensureInit runs the load once. Callers that arrive while it runs wait for
// it; a failed load leaves the gate open for the next caller.
func (m *BeanMapper) ensureInit(ctx context.Context) error {
	if m.destroyed.Load() {
		return ErrDestroyed
	}

	if m.initialized.Load() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed.Load() {
		return ErrDestroyed
	}

	if m.initialized.Load() {
		return nil
	}

	m.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing))

	res, err := m.load(ctx)
	if err != nil {
		m.state.CompareAndSwap(int32(StateInitializing), int32(StateUninitialized))
		m.log.Error("Failed to load mappings", zap.Error(err))

		return fmt.Errorf("failed to load mappings: %w", err)
	}

	m.mappings = res.Mappings
	m.global = res.Global

	m.initialized.Store(true)
	m.state.CompareAndSwap(int32(StateInitializing), int32(StateInitialized))

	m.log.Info("Mapper initialized",
		zap.Int("class_maps", res.Mappings.Len()),
		zap.Int("warnings", len(res.Warnings)))

	return nil
}

func (m *BeanMapper) load(ctx context.Context) (*loader.Result, error) {
	l := m.loader
	if l == nil {
		l = loader.New(
			loader.WithTypes(m.types...),
			loader.WithChecks(mapping.Checks{
				Converter: func(id string) bool {
					_, ok := m.convertersByID[id]

					return ok
				},
				Factory: func(name string) bool {
					_, ok := m.factories[name]

					return ok
				},
			}),
			loader.WithLogger(m.baseLog),
		)
	}

	res, err := l.Load(ctx, append([]string(nil), m.files...), append([]*classmap.MappingFileData(nil), m.pending...))
	if err != nil {
		return nil, err
	}

	if res == nil || res.Mappings == nil {
		return nil, errors.New("loader returned no rule set")
	}

	return res, nil
}

// configure runs fn under the gate lock if the mapper can still be configured.
func (m *BeanMapper) configure(fn func() error) error {
	if m.destroyed.Load() {
		return ErrDestroyed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed.Load() {
		return ErrDestroyed
	}

	if m.initialized.Load() {
		return ErrAlreadyInitialized
	}

	return fn()
}

// AddMapping adds mappings declared with the builder package.
func (m *BeanMapper) AddMapping(b *builder.BeanMappingBuilder) error {
	return m.configure(func() error {
		return m.addMapping(b)
	})
}

func (m *BeanMapper) addMapping(b *builder.BeanMappingBuilder) error {
	if b == nil {
		return errors.New("mapping builder is nil")
	}

	data, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build mapping: %w", err)
	}

	m.pending = append(m.pending, data)

	return nil
}

// RegisterTypes registers more types that mapping files may name.
func (m *BeanMapper) RegisterTypes(values ...any) error {
	return m.configure(func() error {
		m.types = append(m.types, values...)

		return nil
	})
}

// SetMappingFiles replaces the mapping files.
func (m *BeanMapper) SetMappingFiles(files ...string) error {
	return m.configure(func() error {
		m.files = append([]string(nil), files...)

		return nil
	})
}

// SetCustomConverters replaces the converters selected by type.
func (m *BeanMapper) SetCustomConverters(converters ...any) error {
	return m.configure(func() error {
		convs, err := toConverters(converters)
		if err != nil {
			return err
		}

		m.converters = convs

		return nil
	})
}

// SetCustomConvertersWithID replaces the converters referenced by id.
func (m *BeanMapper) SetCustomConvertersWithID(converters map[string]any) error {
	return m.configure(func() error {
		byID, err := toConverterMap(converters)
		if err != nil {
			return err
		}

		m.convertersByID = byID

		return nil
	})
}

// SetEventListeners replaces the event listeners.
func (m *BeanMapper) SetEventListeners(listeners ...EventListener) error {
	return m.configure(func() error {
		m.listeners = append([]EventListener(nil), listeners...)

		return nil
	})
}

// SetCustomFieldMapper replaces the custom field mapper.
func (m *BeanMapper) SetCustomFieldMapper(fm CustomFieldMapper) error {
	return m.configure(func() error {
		m.fieldMapper = fm

		return nil
	})
}

// SetFactories replaces the bean factories.
func (m *BeanMapper) SetFactories(factories map[string]BeanFactory) error {
	return m.configure(func() error {
		m.factories = make(map[string]BeanFactory, len(factories))
		addFactories(m.factories, factories)

		return nil
	})
}

// Destroy releases the mapper's reference on the library runtime. The rule
// set and caches are kept, but every further call fails with ErrDestroyed.
// Calling Destroy again has no effect.
func (m *BeanMapper) Destroy() {
	if !m.destroyed.CompareAndSwap(false, true) {
		return
	}

	m.state.Store(int32(StateDestroyed))
	m.runtime.Release()

	m.log.Info("Mapper destroyed")
}
