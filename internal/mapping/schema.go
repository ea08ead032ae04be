package mapping

import (
	"strings"

	"beanmapper/internal/common"
)

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Configuration holds the global defaults. At most one mapping source
	// may declare it.
	Configuration *ConfigSection `yaml:"configuration,omitempty"`

	// TypeMappings is a list of type pair mappings.
	TypeMappings []TypeMapping `yaml:"mappings"`
}

// ConfigSection is the global "configuration" block. Unset values keep the
// library defaults.
type ConfigSection struct {
	StopOnErrors            *bool  `yaml:"stop_on_errors,omitempty"`
	Wildcard                *bool  `yaml:"wildcard,omitempty"`
	WildcardCaseInsensitive *bool  `yaml:"wildcard_case_insensitive,omitempty"`
	MapNull                 *bool  `yaml:"map_null,omitempty"`
	MapEmptyString          *bool  `yaml:"map_empty_string,omitempty"`
	TrimStrings             *bool  `yaml:"trim_strings,omitempty"`
	DateFormat              string `yaml:"date_format,omitempty"`
	BeanFactory             string `yaml:"bean_factory,omitempty"`

	// Conversions names the enabled primitive conversion categories
	// ("all", "text_number", ...). Empty keeps every category enabled.
	Conversions StringOrArray `yaml:"conversions,omitempty"`

	// CustomConverters binds converter ids to type pairs.
	CustomConverters []ConverterSection `yaml:"custom_converters,omitempty"`
}

// ConverterSection applies the converter registered under Converter to
// every field pair of the two types.
type ConverterSection struct {
	Converter string `yaml:"converter"`
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
}

// ClassDefSection carries per-type attributes of one side of a mapping.
type ClassDefSection struct {
	BeanFactory    string `yaml:"bean_factory,omitempty"`
	CreateMethod   string `yaml:"create_method,omitempty"`
	FactoryBeanID  string `yaml:"factory_bean_id,omitempty"`
	MapNull        *bool  `yaml:"map_null,omitempty"`
	MapEmptyString *bool  `yaml:"map_empty_string,omitempty"`
	MapGetMethod   string `yaml:"map_get_method,omitempty"`
	MapSetMethod   string `yaml:"map_set_method,omitempty"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// MapID names the mapping so that callers can select it explicitly.
	MapID string `yaml:"map_id,omitempty"`

	// OneWay disables the implicit target -> source mapping.
	OneWay bool `yaml:"one_way,omitempty"`

	// Overrides of the global configuration for this pair.
	Wildcard                *bool  `yaml:"wildcard,omitempty"`
	WildcardCaseInsensitive *bool  `yaml:"wildcard_case_insensitive,omitempty"`
	MapNull                 *bool  `yaml:"map_null,omitempty"`
	MapEmptyString          *bool  `yaml:"map_empty_string,omitempty"`
	TrimStrings             *bool  `yaml:"trim_strings,omitempty"`
	StopOnErrors            *bool  `yaml:"stop_on_errors,omitempty"`
	DateFormat              string `yaml:"date_format,omitempty"`

	SourceDef *ClassDefSection `yaml:"source_def,omitempty"`
	TargetDef *ClassDefSection `yaml:"target_def,omitempty"`

	// OneToOne is a simplified mapping syntax where keys are source fields
	// and values are target fields.
	// Priority: highest (applied first).
	// Example: { "OrderID": "ID", "CustomerName": "Customer" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit field mappings with full control.
	// Priority: second highest (after 121).
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Ignore lists fields that are never mapped (in either direction).
	Ignore []string `yaml:"ignore,omitempty"`
}

// TypePair renders "Source->Target" for diagnostics.
func (tm *TypeMapping) TypePair() string {
	return tm.Source + "->" + tm.Target
}

// IntrospectionHint indicates how the engine should treat a field value.
type IntrospectionHint string

const (
	// HintNone means no hint provided; the engine decides from the types.
	HintNone IntrospectionHint = ""
	// HintDive forces a deep copy of the value (field by field).
	HintDive IntrospectionHint = "dive"
	// HintFinal copies the value by reference, without introspection.
	HintFinal IntrospectionHint = "final"
)

// IsValid returns true if the hint is a recognized value.
func (h IntrospectionHint) IsValid() bool {
	return h == HintNone || h == HintDive || h == HintFinal
}

// FieldRef represents a field path with an optional introspection hint.
// YAML formats supported:
//   - Simple string: "Name"
//   - With hint: {Name: dive} or {Name: final}
type FieldRef struct {
	// Path is the field path (e.g., "Name", "Address.Street").
	Path string
	// Hint is the optional introspection hint for this field.
	Hint IntrospectionHint
}

// String returns the path string.
func (f FieldRef) String() string {
	return f.Path
}

// FieldRefArray is a collection of FieldRef that can be unmarshaled from various YAML formats:
//   - Single string: "Name"
//   - Single with hint: {Name: final}
//   - Array of strings: ["Name", "FullName"]
//   - Array with hints: [{DisplayName: final}, FullName]
type FieldRefArray []FieldRef

// First returns the first element's path or empty string if empty.
func (f FieldRefArray) First() string {
	if ref, ok := common.First(f); ok {
		return ref.Path
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (f FieldRefArray) IsEmpty() bool {
	return common.IsEmpty(f)
}

// HasConflictingHints returns true if there are both dive and final hints.
func (f FieldRefArray) HasConflictingHints() bool {
	hasDive := false
	hasFinal := false

	for _, ref := range f {
		if ref.Hint == HintDive {
			hasDive = true
		}

		if ref.Hint == HintFinal {
			hasFinal = true
		}
	}

	return hasDive && hasFinal
}

// FieldMapping defines how target field(s) are populated from a source field.
// Supported cardinalities are 1:1 and 1:many (one source copied into several
// targets). A mapping without source sets the targets from Default.
type FieldMapping struct {
	// Source is the source field path with an optional hint.
	Source FieldRefArray `yaml:"source,omitempty"`

	// Target is the target field path(s) with optional hints.
	Target FieldRefArray `yaml:"target"`

	// Default is a literal value assigned when the source is nil or zero,
	// or unconditionally when Source is empty.
	Default *string `yaml:"default,omitempty"`

	// Converter is the id of a custom converter used for this field.
	Converter string `yaml:"converter,omitempty"`

	// OneWay keeps the field out of the reverse mapping.
	OneWay bool `yaml:"one_way,omitempty"`

	// CopyByReference assigns the value as is (same as a "final" hint).
	CopyByReference bool `yaml:"copy_by_reference,omitempty"`

	// MapID selects the class mapping used for a nested bean.
	MapID string `yaml:"map_id,omitempty"`
}

// Cardinality represents the mapping cardinality.
type Cardinality int

const (
	CardinalityOneToOne   Cardinality = iota // 1:1 - single source to single target
	CardinalityOneToMany                     // 1:N - single source to multiple targets
	CardinalityManyToOne                     // N:1 - multiple sources to single target
	CardinalityManyToMany                    // N:M - multiple sources to multiple targets
)

// String returns a human-readable representation of the cardinality.
func (c Cardinality) String() string {
	switch c {
	case CardinalityOneToOne:
		return "1:1"
	case CardinalityOneToMany:
		return "1:N"
	case CardinalityManyToOne:
		return "N:1"
	case CardinalityManyToMany:
		return "N:M"
	default:
		return common.UnknownStr
	}
}

// GetCardinality returns the cardinality of this field mapping.
func (fm *FieldMapping) GetCardinality() Cardinality {
	sourceCount := len(fm.Source)
	targetCount := len(fm.Target)

	switch {
	case sourceCount <= 1 && targetCount <= 1:
		return CardinalityOneToOne
	case sourceCount <= 1:
		return CardinalityOneToMany
	case targetCount <= 1:
		return CardinalityManyToOne
	default:
		return CardinalityManyToMany
	}
}

// EffectiveHint returns the hint that applies to the copied value: the
// first non-empty hint across source and targets, or final on conflict.
func (fm *FieldMapping) EffectiveHint() IntrospectionHint {
	all := append(append(FieldRefArray{}, fm.Source...), fm.Target...)
	if all.HasConflictingHints() {
		return HintFinal
	}

	for _, ref := range all {
		if ref.Hint != HintNone {
			return ref.Hint
		}
	}

	return HintNone
}

// PathSegment represents a parsed segment of a field path.
type PathSegment struct {
	// Name is the field name.
	Name string

	// IsSlice indicates this segment accesses slice elements (e.g., "Items[]").
	IsSlice bool
}

// FieldPath represents a parsed field path like "Address.Street".
type FieldPath struct {
	Segments []PathSegment
}

// String returns the path as a string.
func (p FieldPath) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString(".")
		}

		sb.WriteString(seg.Name)

		if seg.IsSlice {
			sb.WriteString("[]")
		}
	}

	return sb.String()
}

// IsSimple returns true if this is a simple single-field path (no nesting, no slices).
func (p FieldPath) IsSimple() bool {
	return len(p.Segments) == 1 && !p.Segments[0].IsSlice
}

// HasSlice reports whether any segment uses the [] element notation.
func (p FieldPath) HasSlice() bool {
	for _, seg := range p.Segments {
		if seg.IsSlice {
			return true
		}
	}

	return false
}

// Root returns the first segment's field name.
func (p FieldPath) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0].Name
}
