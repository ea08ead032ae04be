package primitive

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// CategoryEnum is a bit set of enabled conversion categories.
type CategoryEnum int

// ConversionPair is a source kind and a destination kind.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // numbers, when every source value fits the destination
	CategoryUnsafeNumber                          // numbers that may wrap, truncate or lose precision
	CategoryTextNumber                            // number <-> decimal text
	CategoryNumericBool                           // integer 0 or 1 <-> bool
	CategoryTextualBool                           // true/false, yes/no, on/off <-> bool
	CategoryDatetime                              // text in the date format <-> time.Time
	CategoryTimestamp                             // Unix seconds <-> time.Time
	CategoryDuration                              // "2h45m" <-> time.Duration
	CategoryNanoseconds                           // integer nanoseconds <-> time.Duration
	CategorySeconds                               // float seconds <-> time.Duration
	CategoryEnumString                            // named string or integer types <-> text

	CategoryAll  = (1 << iota) - 1
	CategoryNone = 0
)

var categoryNames = map[string]CategoryEnum{
	"safe_number":   CategorySafeNumber,
	"unsafe_number": CategoryUnsafeNumber,
	"text_number":   CategoryTextNumber,
	"numeric_bool":  CategoryNumericBool,
	"textual_bool":  CategoryTextualBool,
	"datetime":      CategoryDatetime,
	"timestamp":     CategoryTimestamp,
	"duration":      CategoryDuration,
	"nanoseconds":   CategoryNanoseconds,
	"seconds":       CategorySeconds,
	"enum_string":   CategoryEnumString,
	"all":           CategoryAll,
	"none":          CategoryNone,
}

// CategoryNames returns the accepted category names, sorted.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryNames))
	for name := range categoryNames {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ParseCategories combines named categories ("text_number", "all", ...) into a set.
// An empty list yields CategoryNone.
func ParseCategories(names []string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, name := range names {
		c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
		}

		res |= c
	}

	return res, nil
}

// String lists the set's category names joined with "|".
func (c CategoryEnum) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	}

	var parts []string
	for _, name := range CategoryNames() {
		bit := categoryNames[name]
		if bit != CategoryAll && bit != CategoryNone && c&bit != 0 {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, "|")
}

// Has reports whether every category in other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

type pairSet = map[ConversionPair]struct{}

// categoryPairs holds the pairs each single category enables.
var categoryPairs = map[CategoryEnum]pairSet{
	CategorySafeNumber:   pairsWhere(safeNumber),
	CategoryUnsafeNumber: pairsWhere(unsafeNumber),
	CategoryTextNumber:   withEither(KindString, KindEnum.IsNumber),
	CategoryNumericBool:  withEither(KindBool, KindEnum.IsInteger),
	CategoryTextualBool:  withEither(KindString, kindIs(KindBool)),
	CategoryDatetime:     withEither(KindString, kindIs(KindTime)),
	CategoryTimestamp:    withEither(KindTime, KindEnum.IsInteger),
	CategoryDuration:     withEither(KindString, kindIs(KindDuration)),
	CategoryNanoseconds:  withEither(KindDuration, fitsNanoseconds),
	CategorySeconds:      withEither(KindDuration, KindEnum.IsFloat),
	CategoryEnumString: {
		{KindString, KindPrimitiveEnum}:        {},
		{KindPrimitiveEnum, KindString}:        {},
		{KindPrimitiveEnum, KindPrimitiveEnum}: {},
	},
}

// allowedSet returns every conversion pair enabled by the categories in allowed.
func allowedSet(allowed CategoryEnum) pairSet {
	res := pairSet{}

	for category, pairs := range categoryPairs {
		if allowed&category != 0 {
			maps.Copy(res, pairs)
		}
	}

	return res
}

func allKinds() []KindEnum {
	kinds := make([]KindEnum, 0, KindTotal-1)
	for k := KindEnum(1); int(k) < KindTotal; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

func pairsWhere(ok func(from, to KindEnum) bool) pairSet {
	res := pairSet{}

	for _, from := range allKinds() {
		for _, to := range allKinds() {
			if ok(from, to) {
				res[ConversionPair{from, to}] = struct{}{}
			}
		}
	}

	return res
}

// withEither pairs k with every kind matching other, in both directions.
func withEither(k KindEnum, other func(KindEnum) bool) pairSet {
	res := pairSet{}

	for _, o := range allKinds() {
		if other(o) {
			res[ConversionPair{k, o}] = struct{}{}
			res[ConversionPair{o, k}] = struct{}{}
		}
	}

	return res
}

func kindIs(want KindEnum) func(KindEnum) bool {
	return func(k KindEnum) bool { return k == want }
}

// fitsNanoseconds excludes uint64, whose upper half overflows time.Duration.
func fitsNanoseconds(k KindEnum) bool {
	return k.IsInteger() && k != KindUint64
}

// safeNumber reports whether every from value is exactly representable as to.
// int and uint count as 64 bits wide when read and as 32 bits when written,
// so the answer holds on every platform.
func safeNumber(from, to KindEnum) bool {
	if !from.IsNumber() || !to.IsNumber() {
		return false
	}

	if from == to {
		return true
	}

	switch {
	case from.IsFloat():
		return to.IsFloat() && to.Bits() >= from.Bits()
	case to.IsFloat():
		return mantissaBits(to) >= valueBits(from)
	case from.IsSigned():
		return to.IsSigned() && writeBits(to) >= readBits(from)
	case to.IsUnsigned():
		return writeBits(to) >= readBits(from)
	default:
		// unsigned into signed needs a spare bit for the sign.
		return writeBits(to) > readBits(from)
	}
}

func unsafeNumber(from, to KindEnum) bool {
	return from.IsNumber() && to.IsNumber() && !safeNumber(from, to)
}

func readBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 64
	}

	return k.Bits()
}

func writeBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 32
	}

	return k.Bits()
}

// valueBits is the number of magnitude bits of an integer kind.
func valueBits(k KindEnum) int {
	if k.IsSigned() {
		return readBits(k) - 1
	}

	return readBits(k)
}

func mantissaBits(k KindEnum) int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}
