package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotSupported is returned when no enabled category covers a conversion.
var ErrNotSupported = errors.New("conversion not supported")

var (
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	validatorType       = reflect.TypeOf((*interface{ IsValid() bool })(nil)).Elem()
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
)

// allowedSets memoizes allowedSet per category set.
var allowedSets sync.Map // CategoryEnum -> map[ConversionPair]struct{}

func allowedPairs(allowed CategoryEnum) map[ConversionPair]struct{} {
	if cached, ok := allowedSets.Load(allowed); ok {
		return cached.(map[ConversionPair]struct{})
	}

	set := allowedSet(allowed)
	allowedSets.Store(allowed, set)

	return set
}

// resolvePair finds the conversion pair used for src -> dst. Named types are
// first tried as enums and then by their underlying kind.
func resolvePair(src, dst reflect.Type, allowed CategoryEnum) (ConversionPair, bool) {
	set := allowedPairs(allowed)

	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if _, ok := set[pair]; ok {
		return pair, true
	}

	base := ConversionPair{BaseKind(src), BaseKind(dst)}
	if base == pair || base.From == 0 || base.To == 0 {
		return ConversionPair{}, false
	}

	_, ok := set[base]

	return base, ok
}

// Supports reports whether Convert can turn a src value into dst under allowed.
func Supports(src, dst reflect.Type, allowed CategoryEnum) bool {
	if src == nil || dst == nil {
		return false
	}

	_, ok := resolvePair(src, dst, allowed)

	return ok
}

// Convert converts v into a value of type dst. layout is the time format used
// by the datetime category; empty means time.RFC3339Nano.
func Convert(v reflect.Value, dst reflect.Type, allowed CategoryEnum, layout string) (reflect.Value, error) {
	if !v.IsValid() || dst == nil {
		return reflect.Value{}, fmt.Errorf("failed to convert invalid value: %w", ErrNotSupported)
	}

	pair, ok := resolvePair(v.Type(), dst, allowed)
	if !ok {
		return reflect.Value{}, fmt.Errorf("failed to convert %s to %s: %w", v.Type(), dst, ErrNotSupported)
	}

	if layout == "" {
		layout = time.RFC3339Nano
	}

	res, err := convertPair(pair, v, dst, layout)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("failed to convert %s to %s: %w", v.Type(), dst, err)
	}

	out := reflect.ValueOf(res)
	if out.Type() != dst {
		out = out.Convert(dst)
	}

	return out, nil
}

func convertPair(p ConversionPair, v reflect.Value, dst reflect.Type, layout string) (any, error) {
	from, to := p.From, p.To

	switch {
	case from == KindPrimitiveEnum || to == KindPrimitiveEnum:
		if to == KindString {
			return textOf(v), nil
		}

		return parseEnum(textOf(v), dst)

	case from.IsNumber() && to.IsNumber():
		return v.Convert(dst).Interface(), nil

	case from.IsNumber() && to == KindString:
		return formatNumber(v, from), nil

	case from == KindString && to.IsNumber():
		return parseNumber(v.String(), to)

	case from.IsInteger() && to == KindBool:
		switch integerOf(v) {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %d", integerOf(v))
		}

	case from == KindBool && to.IsInteger():
		if v.Bool() {
			return 1, nil
		}

		return 0, nil

	case from == KindString && to == KindBool:
		return parseBool(v.String())

	case from == KindBool && to == KindString:
		return strconv.FormatBool(v.Bool()), nil

	case from == KindString && to == KindTime:
		return time.Parse(layout, v.String())

	case from == KindTime && to == KindString:
		return timeOf(v).Format(layout), nil

	case from.IsInteger() && to == KindTime:
		return time.Unix(integerOf(v), 0), nil

	case from == KindTime && to.IsInteger():
		return timeOf(v).Unix(), nil

	case from == KindString && to == KindDuration:
		return time.ParseDuration(v.String())

	case from == KindDuration && to == KindString:
		return time.Duration(v.Int()).String(), nil

	case from.IsInteger() && to == KindDuration:
		return time.Duration(integerOf(v)), nil

	case from == KindDuration && to.IsInteger():
		return v.Int(), nil

	case from.IsFloat() && to == KindDuration:
		return time.Duration(v.Float() * float64(time.Second)), nil

	case from == KindDuration && to.IsFloat():
		return time.Duration(v.Int()).Seconds(), nil
	}

	return nil, ErrNotSupported
}

func integerOf(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

func timeOf(v reflect.Value) time.Time {
	return v.Convert(timeType).Interface().(time.Time)
}

func formatNumber(v reflect.Value, kind KindEnum) string {
	switch {
	case kind.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case kind.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatFloat(v.Float(), 'f', -1, kind.Bits())
	}
}

func parseNumber(s string, kind KindEnum) (any, error) {
	s = strings.TrimSpace(s)

	switch {
	case kind.IsSigned():
		return strconv.ParseInt(s, 10, kind.Bits())
	case kind.IsUnsigned():
		return strconv.ParseUint(s, 10, kind.Bits())
	default:
		return strconv.ParseFloat(s, kind.Bits())
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got: %s", s)
	}
}

// textOf renders an enum or string value as text, preferring String().
func textOf(v reflect.Value) string {
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// parseEnum builds a dst value from text and checks IsValid when dst has it.
func parseEnum(text string, dst reflect.Type) (any, error) {
	ptr := reflect.New(dst)

	switch {
	case reflect.PointerTo(dst).Implements(textUnmarshalerType):
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return nil, err
		}
	case dst.Kind() == reflect.String:
		ptr.Elem().SetString(text)
	case dst.Kind() >= reflect.Int && dst.Kind() <= reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, err
		}

		ptr.Elem().SetInt(n)
	default:
		return nil, ErrNotSupported
	}

	value := ptr.Elem()
	if dst.Implements(validatorType) && !value.Interface().(interface{ IsValid() bool }).IsValid() {
		return nil, fmt.Errorf("%q is not a valid value for %s", text, dst)
	}

	return value.Interface(), nil
}
