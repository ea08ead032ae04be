package stats

import (
	"fmt"
	"reflect"
	"time"
)

// Mapper is the mapping contract the wrapper decorates.
type Mapper interface {
	Map(src, dst any) error
	MapID(src, dst any, mapID string) error
	MapType(src any, dstType reflect.Type) (any, error)
	MapTypeID(src any, dstType reflect.Type, mapID string) (any, error)
}

// InstrumentedMapper records statistics around every call of a delegate.
// Results and errors of the delegate are returned unchanged.
type InstrumentedMapper struct {
	delegate Mapper
	stats    *Manager
}

var _ Mapper = (*InstrumentedMapper)(nil)

// Intercept wraps m so that its calls are recorded in mgr.
func Intercept(m Mapper, mgr *Manager) *InstrumentedMapper {
	return &InstrumentedMapper{delegate: m, stats: mgr}
}

// Unwrap returns the wrapped mapper.
func (im *InstrumentedMapper) Unwrap() Mapper {
	return im.delegate
}

func (im *InstrumentedMapper) Map(src, dst any) error {
	start := time.Now()
	err := im.delegate.Map(src, dst)
	im.record(start, err, typeName(src), typeName(dst))

	return err
}

func (im *InstrumentedMapper) MapID(src, dst any, mapID string) error {
	start := time.Now()
	err := im.delegate.MapID(src, dst, mapID)
	im.record(start, err, typeName(src), typeName(dst))

	return err
}

func (im *InstrumentedMapper) MapType(src any, dstType reflect.Type) (any, error) {
	start := time.Now()
	res, err := im.delegate.MapType(src, dstType)
	im.record(start, err, typeName(src), fmt.Sprint(dstType))

	return res, err
}

func (im *InstrumentedMapper) MapTypeID(src any, dstType reflect.Type, mapID string) (any, error) {
	start := time.Now()
	res, err := im.delegate.MapTypeID(src, dstType, mapID)
	im.record(start, err, typeName(src), fmt.Sprint(dstType))

	return res, err
}

func (im *InstrumentedMapper) record(start time.Time, err error, src, dst string) {
	im.stats.AddDuration(MappingTime, time.Since(start))

	if err == nil {
		im.stats.Increment(MappingSuccessCount)

		return
	}

	im.stats.Increment(MappingFailureCount)
	im.stats.IncrementKey(MappingFailureExTypeCount, fmt.Sprintf("%T", err))
	im.stats.IncrementKey(MappingFailureTypeCount, src+" -> "+dst)
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}
