package mapper

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"beanmapper/builder"
	"beanmapper/internal/engine"
	"beanmapper/internal/loader"
)

// Option configures a BeanMapper at construction.
type Option func(m *BeanMapper) error

// WithMappingFiles adds YAML mapping files, loaded in the given order.
func WithMappingFiles(files ...string) Option {
	return func(m *BeanMapper) error {
		m.files = append(m.files, files...)

		return nil
	}
}

// WithTypes registers the types of values so that mapping files can name
// them. reflect.Type values are accepted as well.
func WithTypes(values ...any) Option {
	return func(m *BeanMapper) error {
		m.types = append(m.types, values...)

		return nil
	}
}

// WithMappings adds mappings declared with the builder package.
func WithMappings(builders ...*builder.BeanMappingBuilder) Option {
	return func(m *BeanMapper) error {
		for _, b := range builders {
			if err := m.addMapping(b); err != nil {
				return err
			}
		}

		return nil
	}
}

// WithCustomConverters adds converters selected by type. Each converter is a
// CustomConverter that also implements ConverterMatcher, or a plain function
// accepted by engine.NewFuncConverter.
func WithCustomConverters(converters ...any) Option {
	return func(m *BeanMapper) error {
		convs, err := toConverters(converters)
		if err != nil {
			return err
		}

		m.converters = append(m.converters, convs...)

		return nil
	}
}

// WithCustomConvertersWithID adds converters referenced by id from mapping
// rules. Values follow the rules of WithCustomConverters.
func WithCustomConvertersWithID(converters map[string]any) Option {
	return func(m *BeanMapper) error {
		byID, err := toConverterMap(converters)
		if err != nil {
			return err
		}

		for id, c := range byID {
			m.convertersByID[id] = c
		}

		return nil
	}
}

// WithEventListeners adds listeners notified around every bean mapping.
func WithEventListeners(listeners ...EventListener) Option {
	return func(m *BeanMapper) error {
		m.listeners = append(m.listeners, listeners...)

		return nil
	}
}

// WithCustomFieldMapper sets the hook consulted before each field is mapped.
func WithCustomFieldMapper(fm CustomFieldMapper) Option {
	return func(m *BeanMapper) error {
		m.fieldMapper = fm

		return nil
	}
}

// WithFactories adds bean factories by name. Each factory is also available
// under its type name (see builder.FactoryName).
func WithFactories(factories map[string]BeanFactory) Option {
	return func(m *BeanMapper) error {
		addFactories(m.factories, factories)

		return nil
	}
}

// WithLogger sets the logger. The runtime logger is used otherwise.
func WithLogger(log *zap.Logger) Option {
	return func(m *BeanMapper) error {
		m.baseLog = log

		return nil
	}
}

// WithStatistics uses st instead of the runtime statistics.
func WithStatistics(st *Statistics) Option {
	return func(m *BeanMapper) error {
		m.stats = st

		return nil
	}
}

// WithSettings overrides the runtime settings for this mapper's caches.
func WithSettings(s Settings) Option {
	return func(m *BeanMapper) error {
		if err := s.Validate(); err != nil {
			return err
		}

		m.settings = &s

		return nil
	}
}

// WithLoader replaces the mapping-file loader.
func WithLoader(l loader.Loader) Option {
	return func(m *BeanMapper) error {
		m.loader = l

		return nil
	}
}

// WithRuntime uses r instead of the process-wide runtime.
func WithRuntime(r *Runtime) Option {
	return func(m *BeanMapper) error {
		m.runtime = r

		return nil
	}
}

func toConverter(v any) (CustomConverter, error) {
	if c, ok := v.(CustomConverter); ok {
		return c, nil
	}

	fc, err := engine.NewFuncConverter(v)
	if err != nil {
		return nil, fmt.Errorf("failed to use %T as converter: %w", v, err)
	}

	return fc, nil
}

func toConverters(values []any) ([]CustomConverter, error) {
	out := make([]CustomConverter, 0, len(values))

	for _, v := range values {
		c, err := toConverter(v)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

func toConverterMap(values map[string]any) (map[string]CustomConverter, error) {
	out := make(map[string]CustomConverter, len(values))

	for id, v := range values {
		c, err := toConverter(v)
		if err != nil {
			return nil, fmt.Errorf("converter %q: %w", id, err)
		}

		out[id] = c
	}

	return out, nil
}

func addFactories(dst, src map[string]BeanFactory) {
	for name, f := range src {
		dst[name] = f
	}

	for _, f := range src {
		// Function factories share one type name.
		if f == nil || reflect.TypeOf(f).Kind() == reflect.Func {
			continue
		}

		if byType := builder.FactoryName(f); byType != "" {
			if _, taken := dst[byType]; !taken {
				dst[byType] = f
			}
		}
	}
}
