package classmap

import (
	"reflect"
	"time"

	"beanmapper/primitive"
)

// ConverterDef applies a custom converter registered under ID to every
// field whose types are A and B (either direction).
type ConverterDef struct {
	ID     string
	A, B   string
	AType  reflect.Type
	BType  reflect.Type
	Source string
}

// Configuration holds the global defaults of a rule set.
type Configuration struct {
	StopOnErrors            bool
	Wildcard                bool
	WildcardCaseInsensitive bool
	MapNull                 bool
	MapEmptyString          bool
	TrimStrings             bool
	DateFormat              string
	BeanFactory             string
	Conversions             primitive.CategoryEnum
	CustomConverters        []ConverterDef

	// Source names the mapping file or builder that declared the configuration.
	Source string
}

// DefaultConfiguration returns the configuration used when no source declares one.
func DefaultConfiguration() Configuration {
	return Configuration{
		StopOnErrors:   true,
		Wildcard:       true,
		MapNull:        true,
		MapEmptyString: true,
		DateFormat:     time.RFC3339Nano,
		Conversions:    primitive.CategoryAll,
	}
}

// Effective is the configuration of one class map after applying its overrides.
type Effective struct {
	StopOnErrors            bool
	Wildcard                bool
	WildcardCaseInsensitive bool
	MapNull                 bool
	MapEmptyString          bool
	TrimStrings             bool
	DateFormat              string
	Conversions             primitive.CategoryEnum
}

// EffectiveFor merges the class map overrides over the global values.
// cm may be nil, in which case the global values are returned.
func (c *Configuration) EffectiveFor(cm *ClassMap) Effective {
	eff := Effective{
		StopOnErrors:            c.StopOnErrors,
		Wildcard:                c.Wildcard,
		WildcardCaseInsensitive: c.WildcardCaseInsensitive,
		MapNull:                 c.MapNull,
		MapEmptyString:          c.MapEmptyString,
		TrimStrings:             c.TrimStrings,
		DateFormat:              c.DateFormat,
		Conversions:             c.Conversions,
	}

	if cm == nil {
		return eff
	}

	override(&eff.StopOnErrors, cm.StopOnErrors)
	override(&eff.Wildcard, cm.Wildcard)
	override(&eff.WildcardCaseInsensitive, cm.WildcardCaseInsensitive)
	override(&eff.MapNull, cm.MapNull)
	override(&eff.MapEmptyString, cm.MapEmptyString)
	override(&eff.TrimStrings, cm.TrimStrings)

	// Destination class attributes win over the class map.
	override(&eff.MapNull, cm.B.MapNull)
	override(&eff.MapEmptyString, cm.B.MapEmptyString)

	if cm.DateFormat != "" {
		eff.DateFormat = cm.DateFormat
	}

	return eff
}

func override(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
