package primitive

import (
	"reflect"
	"strconv"
)

// KindEnum classifies the primitive types the runtime conversions understand.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // alias to any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = [...]string{
	KindInt:           "KindInt",
	KindInt8:          "KindInt8",
	KindInt16:         "KindInt16",
	KindInt32:         "KindInt32",
	KindInt64:         "KindInt64",
	KindUint:          "KindUint",
	KindUint8:         "KindUint8",
	KindUint16:        "KindUint16",
	KindUint32:        "KindUint32",
	KindUint64:        "KindUint64",
	KindFloat32:       "KindFloat32",
	KindFloat64:       "KindFloat64",
	KindBool:          "KindBool",
	KindString:        "KindString",
	KindTime:          "KindTime",
	KindDuration:      "KindDuration",
	KindPrimitiveEnum: "KindPrimitiveEnum",
}

func (k KindEnum) String() string {
	if k <= 0 || int(k) >= KindTotal {
		return "KindEnum(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits returns the width of a number kind; int and uint report the platform
// width. It panics for other kinds.
func (k KindEnum) Bits() int {
	switch k {
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	default:
		panic("bits requested for non-number kind " + k.String())
	}
}

// exactKinds maps the predeclared types, time.Time and time.Duration.
var exactKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():     KindInt,
	reflect.TypeFor[int8]():    KindInt8,
	reflect.TypeFor[int16]():   KindInt16,
	reflect.TypeFor[int32]():   KindInt32,
	reflect.TypeFor[int64]():   KindInt64,
	reflect.TypeFor[uint]():    KindUint,
	reflect.TypeFor[uint8]():   KindUint8,
	reflect.TypeFor[uint16]():  KindUint16,
	reflect.TypeFor[uint32]():  KindUint32,
	reflect.TypeFor[uint64]():  KindUint64,
	reflect.TypeFor[float32](): KindFloat32,
	reflect.TypeFor[float64](): KindFloat64,
	reflect.TypeFor[bool]():    KindBool,
	reflect.TypeFor[string]():  KindString,
	timeType:                   KindTime,
	durationType:               KindDuration,
}

// underlyingKinds maps reflect kinds to the kind of their predeclared type.
var underlyingKinds = map[reflect.Kind]KindEnum{
	reflect.Int:     KindInt,
	reflect.Int8:    KindInt8,
	reflect.Int16:   KindInt16,
	reflect.Int32:   KindInt32,
	reflect.Int64:   KindInt64,
	reflect.Uint:    KindUint,
	reflect.Uint8:   KindUint8,
	reflect.Uint16:  KindUint16,
	reflect.Uint32:  KindUint32,
	reflect.Uint64:  KindUint64,
	reflect.Float32: KindFloat32,
	reflect.Float64: KindFloat64,
	reflect.Bool:    KindBool,
	reflect.String:  KindString,
}

// FromReflectType classifies rtype. Named int and string types that are not
// one of the predeclared ones are reported as KindPrimitiveEnum; any other
// type yields the zero kind.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := exactKinds[rtype]; ok {
		return k
	}

	if rtype.Kind() == reflect.Int || rtype.Kind() == reflect.String {
		return KindPrimitiveEnum
	}

	return 0
}

// BaseKind classifies rtype by its underlying reflect.Kind, ignoring names.
// It lets a named type like `type Cents int64` take part in number conversions.
func BaseKind(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if rtype == timeType || rtype == durationType {
		return exactKinds[rtype]
	}

	return underlyingKinds[rtype.Kind()]
}
