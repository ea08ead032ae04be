package mapper

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"beanmapper/internal/cache"
	"beanmapper/internal/classmap"
	"beanmapper/internal/engine"
	"beanmapper/internal/lifecycle"
	"beanmapper/internal/settings"
	"beanmapper/internal/stats"
)

// Mapper is the mapping contract of an engine handle.
type Mapper interface {
	// Map maps src into the bean dst points to.
	Map(src, dst any) error
	// MapID maps src into dst with the class mapping named mapID.
	MapID(src, dst any, mapID string) error
	// MapType creates a dstType value and maps src into it.
	MapType(src any, dstType reflect.Type) (any, error)
	// MapTypeID is MapType with the class mapping named mapID. A nil dstType
	// is taken from that class mapping.
	MapTypeID(src any, dstType reflect.Type, mapID string) (any, error)
}

var (
	_ Mapper = (*engine.Processor)(nil)
	_ Mapper = (*stats.InstrumentedMapper)(nil)
	_ Mapper = (*BeanMapper)(nil)
)

// Collaborator types implemented by callers.
type (
	CustomConverter   = engine.CustomConverter
	ConverterMatcher  = engine.ConverterMatcher
	CustomFieldMapper = engine.CustomFieldMapper
	EventListener     = engine.EventListener
	Event             = engine.Event
	EventType         = engine.EventType
	BeanFactory       = engine.BeanFactory
	BeanFactoryFunc   = engine.BeanFactoryFunc
	FuncConverter     = engine.FuncConverter
	MappingError      = engine.MappingError
	ClassMap          = classmap.ClassMap
	FieldMap          = classmap.FieldMap
)

const (
	EventMappingStarted              = engine.EventMappingStarted
	EventPreWritingDestinationValue  = engine.EventPreWritingDestinationValue
	EventPostWritingDestinationValue = engine.EventPostWritingDestinationValue
	EventMappingFinished             = engine.EventMappingFinished
)

// ErrSkipField may be returned by a custom converter to leave the destination
// field untouched.
var ErrSkipField = engine.ErrSkipField

// Shared state types.
type (
	Settings     = settings.Settings
	Statistics   = stats.Manager
	Runtime      = lifecycle.Runtime
	CacheManager = cache.Manager
)

// NewStatistics creates a statistics registry private to the mappers it is
// given to.
func NewStatistics(enabled bool) *Statistics {
	return stats.NewManager(enabled)
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() Settings {
	return settings.Default()
}

// LoadSettings reads settings from an optional file and BEANMAPPER_*
// environment variables.
func LoadSettings(path string) (Settings, error) {
	return settings.Load(path)
}

// NewRuntime creates library state separate from the process-wide one.
// registerer and log may be nil.
func NewRuntime(s Settings, st *Statistics, registerer prometheus.Registerer, log *zap.Logger) *Runtime {
	return lifecycle.NewRuntime(s, st, registerer, log)
}
