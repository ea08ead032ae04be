package engine

import (
	"reflect"

	"beanmapper/internal/classmap"
)

// CustomConverter converts one value. existingDest is the current value of
// the destination field (nil for fresh beans); the result replaces it.
type CustomConverter interface {
	Convert(existingDest, src any, dstType, srcType reflect.Type) (any, error)
}

// ConverterMatcher is implemented by converters that can be selected by type
// without an id.
type ConverterMatcher interface {
	Accepts(srcType, dstType reflect.Type) bool
}

// EventType tells listeners which step of a mapping is reported.
type EventType int

const (
	EventMappingStarted EventType = iota
	EventPreWritingDestinationValue
	EventPostWritingDestinationValue
	EventMappingFinished
)

func (t EventType) String() string {
	switch t {
	case EventMappingStarted:
		return "mapping_started"
	case EventPreWritingDestinationValue:
		return "pre_writing_destination_value"
	case EventPostWritingDestinationValue:
		return "post_writing_destination_value"
	case EventMappingFinished:
		return "mapping_finished"
	default:
		return "unknown"
	}
}

// Event describes one step of a bean mapping.
type Event struct {
	Type        EventType
	ClassMap    *classmap.ClassMap
	FieldMap    *classmap.FieldMap
	Source      any
	Destination any
	// Value is the value about to be written (pre) or written (post).
	Value any
}

// EventListener observes mappings. Calls happen on the mapping goroutine.
type EventListener interface {
	MappingStarted(ev Event)
	PreWritingDestinationValue(ev Event)
	PostWritingDestinationValue(ev Event)
	MappingFinished(ev Event)
}

// CustomFieldMapper may take over any field. Returning true marks the field
// as handled and skips the regular mapping.
type CustomFieldMapper interface {
	MapField(src, dst, srcFieldValue any, cm *classmap.ClassMap, fm *classmap.FieldMap) (bool, error)
}

// BeanFactory creates destination beans. The result must be a T or *T for
// the requested destination type T.
type BeanFactory interface {
	CreateBean(src any, srcType reflect.Type, beanID string) (any, error)
}

// BeanFactoryFunc adapts a function to BeanFactory.
type BeanFactoryFunc func(src any, srcType reflect.Type, beanID string) (any, error)

func (f BeanFactoryFunc) CreateBean(src any, srcType reflect.Type, beanID string) (any, error) {
	return f(src, srcType, beanID)
}
