package match

import (
	"reflect"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means no built-in rule can move a value between the types.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means the value has to be rebuilt (deep copy, deref, primitive parse).
	TypeNeedsTransform
	// TypeConvertible means reflect.Value.Convert handles it.
	TypeConvertible
	// TypeAssignable means the source value can be set on the target directly.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string
	TargetType    string
}

func newResult(c TypeCompatibility, reason string, source, target reflect.Type) TypeCompatibilityResult {
	return TypeCompatibilityResult{
		Compatibility: c,
		Reason:        reason,
		SourceType:    typeName(source),
		TargetType:    typeName(target),
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// ScoreTypeCompatibility determines the compatibility between a source and target type.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	if source == nil || target == nil {
		return newResult(TypeIncompatible, "missing type", source, target)
	}

	if source == target {
		return newResult(TypeIdentical, "types are identical", source, target)
	}

	if source.AssignableTo(target) {
		return newResult(TypeAssignable, "source is assignable to target", source, target)
	}

	// reflect allows int -> string conversion, which yields a rune, never what a mapping wants.
	if source.ConvertibleTo(target) && !isIntToString(source, target) {
		return newResult(TypeConvertible, "source is convertible to target", source, target)
	}

	if needsTransform(source, target) {
		return newResult(TypeNeedsTransform, "types require a transform", source, target)
	}

	return newResult(TypeIncompatible, "types are not compatible", source, target)
}

// needsTransform checks for cases the engine can handle by rebuilding the value.
func needsTransform(source, target reflect.Type) bool {
	sk, tk := source.Kind(), target.Kind()

	if sk == reflect.Pointer && tk != reflect.Pointer {
		return ScoreTypeCompatibility(source.Elem(), target).Compatibility >= TypeNeedsTransform
	}

	if sk != reflect.Pointer && tk == reflect.Pointer {
		return ScoreTypeCompatibility(source, target.Elem()).Compatibility >= TypeNeedsTransform
	}

	switch {
	case sk == reflect.Pointer && tk == reflect.Pointer:
		return ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	case isSequence(sk) && isSequence(tk):
		return ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	case sk == reflect.Map && tk == reflect.Map:
		return ScoreTypeCompatibility(source.Key(), target.Key()).Compatibility >= TypeNeedsTransform &&
			ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	case sk == reflect.Struct && tk == reflect.Struct:
		return true
	case sk == reflect.Struct && tk == reflect.Map, sk == reflect.Map && tk == reflect.Struct:
		return true
	case tk == reflect.Interface:
		return true
	case IsPrimitive(source) && IsPrimitive(target):
		return true
	}

	return false
}

// ScorePointerCompatibility checks compatibility considering pointer wrapping/unwrapping.
func ScorePointerCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	result := ScoreTypeCompatibility(source, target)
	if result.Compatibility >= TypeConvertible || source == nil || target == nil {
		return result
	}

	if source.Kind() == reflect.Pointer {
		if ScoreTypeCompatibility(source.Elem(), target).Compatibility >= TypeConvertible {
			return newResult(TypeNeedsTransform, "requires pointer dereference", source, target)
		}
	}

	if target.Kind() == reflect.Pointer {
		if ScoreTypeCompatibility(source, target.Elem()).Compatibility >= TypeConvertible {
			return newResult(TypeNeedsTransform, "requires taking address", source, target)
		}
	}

	return result
}

// IsSuperType reports whether a value of type sub can stand in for super:
// identical, assignable, or implementing super when super is an interface.
func IsSuperType(super, sub reflect.Type) bool {
	if super == nil || sub == nil {
		return false
	}

	if super.Kind() == reflect.Interface {
		return sub.Implements(super) || reflect.PointerTo(sub).Implements(super)
	}

	return sub.AssignableTo(super)
}

// IsNumericType returns true if the type is a numeric basic type.
func IsNumericType(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsStringType returns true if the type is a string.
func IsStringType(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.String
}

// IsPrimitive reports whether the type is a bool, number or string.
func IsPrimitive(t reflect.Type) bool {
	return t != nil && (IsNumericType(t) || IsStringType(t) || t.Kind() == reflect.Bool)
}

func isSequence(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}

func isIntToString(source, target reflect.Type) bool {
	return target.Kind() == reflect.String && IsNumericType(source)
}
