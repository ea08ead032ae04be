package engine

import (
	"reflect"
	"time"

	"beanmapper/internal/match"
	"beanmapper/primitive"
)

// Strategy describes how one value is written into a destination.
type Strategy int

const (
	// StrategyDirectAssign - direct assignment (types are identical or assignable).
	StrategyDirectAssign Strategy = iota
	// StrategyConvert - Go conversion between types of the same kind.
	StrategyConvert
	// StrategyPrimitive - conversion through the primitive package.
	StrategyPrimitive
	// StrategyPointerDeref - dereference the source pointer with nil check.
	StrategyPointerDeref
	// StrategyPointerWrap - allocate the destination pointer and map into it.
	StrategyPointerWrap
	// StrategySliceMap - map over slice or array elements.
	StrategySliceMap
	// StrategyMapCopy - map over map entries.
	StrategyMapCopy
	// StrategyNestedBean - map a nested bean field by field.
	StrategyNestedBean
	// StrategyInterface - store the source in an interface destination.
	StrategyInterface
	// StrategyIncompatible - no way to map the pair.
	StrategyIncompatible
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDirectAssign:
		return "direct"
	case StrategyConvert:
		return "convert"
	case StrategyPrimitive:
		return "primitive"
	case StrategyPointerDeref:
		return "pointer_deref"
	case StrategyPointerWrap:
		return "pointer_wrap"
	case StrategySliceMap:
		return "slice_map"
	case StrategyMapCopy:
		return "map_copy"
	case StrategyNestedBean:
		return "nested_bean"
	case StrategyInterface:
		return "interface"
	default:
		return "incompatible"
	}
}

// Strategy explanation constants.
const (
	explPointerDeref = "pointer deref"
	explPointerWrap  = "pointer wrap"
	explNestedBean   = "nested bean"
	explSliceMap     = "slice map"
	explMap          = "map copy"
	explPrimitive    = "primitive conversion"
	explInterface    = "interface"
)

var timeType = reflect.TypeFor[time.Time]()

// selectStrategy chooses how to map a src value into a dst value. beanPair
// reports whether a class map or two bean types make the pair a nested bean.
func selectStrategy(
	src, dst reflect.Type,
	compat match.TypeCompatibility,
	beanPair bool,
	conversions primitive.CategoryEnum,
) (Strategy, string) {
	switch {
	case src.Kind() == reflect.Pointer:
		return StrategyPointerDeref, explPointerDeref
	case dst.Kind() == reflect.Pointer:
		return StrategyPointerWrap, explPointerWrap
	case dst.Kind() == reflect.Interface:
		if src.Implements(dst) {
			return StrategyInterface, explInterface
		}

		return StrategyIncompatible, "source does not implement " + dst.String()
	case beanPair:
		return StrategyNestedBean, explNestedBean
	case isSequence(src.Kind()) && isSequence(dst.Kind()):
		return StrategySliceMap, explSliceMap
	case src.Kind() == reflect.Map && dst.Kind() == reflect.Map:
		return StrategyMapCopy, explMap
	}

	switch compat {
	case match.TypeIdentical:
		return StrategyDirectAssign, match.VerdictIdentical
	case match.TypeAssignable:
		return StrategyDirectAssign, match.VerdictAssignable
	}

	if primitive.Supports(src, dst, conversions) {
		return StrategyPrimitive, explPrimitive
	}

	if compat == match.TypeConvertible && src.Kind() == dst.Kind() {
		return StrategyConvert, match.VerdictConvertible
	}

	return StrategyIncompatible, compat.String()
}

// isBeanType reports whether values of t are mapped field by field.
func isBeanType(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}

	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			return true
		}
	}

	return false
}

func isSequence(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}
