package builder

import (
	"errors"
	"fmt"

	"beanmapper/internal/classmap"
	"beanmapper/internal/mapping"
)

// ErrInvalidType is returned by Build when a mapping side names no type.
var ErrInvalidType = errors.New("mapping side has no type")

// BeanMappingBuilder collects type mappings declared in code.
type BeanMappingBuilder struct {
	configure func(b *BeanMappingBuilder)
	mappings  []*TypeMappingBuilder
}

// NewMapping creates a builder whose mappings are declared by configure.
// configure runs on every Build.
func NewMapping(configure func(b *BeanMappingBuilder)) *BeanMappingBuilder {
	return &BeanMappingBuilder{configure: configure}
}

// Mapping declares a mapping between a and b. Each side is a
// *TypeDefinition, a type name, a reflect.Type, or a value whose type is used.
func (b *BeanMappingBuilder) Mapping(a, bSide any, opts ...MappingOption) *TypeMappingBuilder {
	tm := &TypeMappingBuilder{a: definitionOf(a), b: definitionOf(bSide), opts: opts}
	b.mappings = append(b.mappings, tm)

	return tm
}

// Build runs the configure function and compiles the declared mappings.
func (b *BeanMappingBuilder) Build() (*classmap.MappingFileData, error) {
	b.mappings = nil
	if b.configure != nil {
		b.configure(b)
	}

	data := &classmap.MappingFileData{Source: classmap.SourceBuilder}

	for i, tm := range b.mappings {
		cm, err := tm.build()
		if err != nil {
			return nil, fmt.Errorf("failed to build mapping %d: %w", i, err)
		}

		data.ClassMaps = append(data.ClassMaps, cm)
		data.AddType(tm.a.Type())
		data.AddType(tm.b.Type())
	}

	return data, nil
}

func definitionOf(v any) *TypeDefinition {
	switch v := v.(type) {
	case *TypeDefinition:
		if v == nil {
			return &TypeDefinition{}
		}

		return v
	case string:
		return NewTypeDefinition(v)
	default:
		return TypeOf(v)
	}
}

// TypeMappingBuilder declares the field rules of one type mapping.
type TypeMappingBuilder struct {
	a, b     *TypeDefinition
	opts     []MappingOption
	fields   []classmap.FieldMap
	excludes []string
}

// Fields maps field a onto field b. Paths may be dotted ("Address.City").
// An empty a with a Default option sets b from the default only.
func (t *TypeMappingBuilder) Fields(a, b string, opts ...FieldOption) *TypeMappingBuilder {
	fm := classmap.FieldMap{A: a, B: b}
	for _, opt := range opts {
		opt(&fm)
	}

	if a == "" {
		fm.OneWay = true
	}

	t.fields = append(t.fields, fm)

	return t
}

// Exclude keeps field out of the mapping in both directions.
func (t *TypeMappingBuilder) Exclude(field string) *TypeMappingBuilder {
	t.excludes = append(t.excludes, field)

	return t
}

func (t *TypeMappingBuilder) build() (*classmap.ClassMap, error) {
	if t.a.Name() == "" || t.b.Name() == "" {
		return nil, ErrInvalidType
	}

	cm := &classmap.ClassMap{
		A:      classDef(t.a),
		B:      classDef(t.b),
		Source: classmap.SourceBuilder,
	}

	for _, opt := range t.opts {
		opt(cm)
	}

	cm.Fields = append(cm.Fields, t.fields...)
	for _, field := range t.excludes {
		cm.Fields = append(cm.Fields, classmap.FieldMap{A: field, B: field, Exclude: true})
	}

	return cm, nil
}

func classDef(d *TypeDefinition) classmap.ClassDef {
	def := classmap.ClassDef{Name: d.Name(), Type: d.Type()}
	d.Build(classmap.NewClassDefBuilder(&def))

	return def
}

// MappingOption sets a class-level option of a type mapping.
type MappingOption func(cm *classmap.ClassMap)

// MapID names the mapping so it can be selected explicitly.
func MapID(id string) MappingOption {
	return func(cm *classmap.ClassMap) { cm.MapID = id }
}

// OneWay disables the reverse direction.
func OneWay() MappingOption {
	return func(cm *classmap.ClassMap) { cm.OneWay = true }
}

func Wildcard(v bool) MappingOption {
	return func(cm *classmap.ClassMap) { cm.Wildcard = &v }
}

func WildcardCaseInsensitive(v bool) MappingOption {
	return func(cm *classmap.ClassMap) { cm.WildcardCaseInsensitive = &v }
}

func MapNull(v bool) MappingOption {
	return func(cm *classmap.ClassMap) { cm.MapNull = &v }
}

func MapEmptyString(v bool) MappingOption {
	return func(cm *classmap.ClassMap) { cm.MapEmptyString = &v }
}

func TrimStrings(v bool) MappingOption {
	return func(cm *classmap.ClassMap) { cm.TrimStrings = &v }
}

func StopOnErrors(v bool) MappingOption {
	return func(cm *classmap.ClassMap) { cm.StopOnErrors = &v }
}

// DateFormat sets the layout used between time values and strings. Layout
// names of the time package ("RFC3339", "DateOnly") are accepted.
func DateFormat(layout string) MappingOption {
	return func(cm *classmap.ClassMap) { cm.DateFormat = mapping.ResolveLayout(layout) }
}

// FieldOption sets an option of one field rule.
type FieldOption func(fm *classmap.FieldMap)

// FieldOneWay keeps the field out of the reverse direction.
func FieldOneWay() FieldOption {
	return func(fm *classmap.FieldMap) { fm.OneWay = true }
}

// Converter maps the field with the custom converter registered under id.
func Converter(id string) FieldOption {
	return func(fm *classmap.FieldMap) { fm.ConverterID = id }
}

// CopyByReference assigns the value as is instead of copying it.
func CopyByReference() FieldOption {
	return func(fm *classmap.FieldMap) { fm.CopyByReference = true }
}

// FieldMapID selects the class mapping used for a nested bean.
func FieldMapID(id string) FieldOption {
	return func(fm *classmap.FieldMap) { fm.MapID = id }
}

// Default is written when the source field is nil or zero.
func Default(v string) FieldOption {
	return func(fm *classmap.FieldMap) { fm.Default = &v }
}
