package classmap

import (
	"fmt"
	"reflect"
)

// ClassDef describes one side of a class mapping.
type ClassDef struct {
	// Name is the type identity as written ("store.Order") until the loader
	// resolves it to a fully qualified name.
	Name string
	// Type is set by the loader once Name is resolved.
	Type reflect.Type

	BeanFactory   string
	CreateMethod  string
	FactoryBeanID string
	// MapNull and MapEmptyString are nil when unset so the class map or the
	// global configuration decides.
	MapNull        *bool
	MapEmptyString *bool
	MapGetMethod   string
	MapSetMethod   string
}

// IsMapBacked reports whether fields are read and written through accessor methods.
func (d *ClassDef) IsMapBacked() bool {
	return d.MapGetMethod != "" || d.MapSetMethod != ""
}

// FieldMap is an explicit rule for one field pair.
type FieldMap struct {
	// A and B are dotted field paths on the A and B types ("Address.Street").
	A, B string

	OneWay          bool
	Exclude         bool
	ConverterID     string
	CopyByReference bool
	// MapID selects the class map used for a nested bean.
	MapID string
	// Default is written to B when A is nil or zero.
	Default *string
}

// Reverse returns the rule as seen from B to A.
func (f FieldMap) Reverse() FieldMap {
	r := f
	r.A, r.B = f.B, f.A

	return r
}

// ClassMap pairs two types with the rules used to map between them.
type ClassMap struct {
	A, B   ClassDef
	MapID  string
	OneWay bool

	// Overrides of the global configuration; nil means inherit.
	Wildcard                *bool
	WildcardCaseInsensitive *bool
	MapNull                 *bool
	MapEmptyString          *bool
	TrimStrings             *bool
	StopOnErrors            *bool
	DateFormat              string

	Fields []FieldMap

	// Source names where the class map was declared ("orders.yaml", "builder").
	Source string
	// Reversed marks a class map synthesized from a bi-directional one.
	Reversed bool
}

// Key identifies a class map inside ClassMappings.
type Key struct {
	Src, Dst string
	MapID    string
}

// String renders the key as "src -> dst [map-id]".
func (k Key) String() string {
	if k.MapID == "" {
		return fmt.Sprintf("%s -> %s", k.Src, k.Dst)
	}

	return fmt.Sprintf("%s -> %s [%s]", k.Src, k.Dst, k.MapID)
}

// Key returns the lookup key of the A -> B direction.
func (c *ClassMap) Key() Key {
	return Key{Src: c.A.Name, Dst: c.B.Name, MapID: c.MapID}
}

// TypePair renders "A->B" for diagnostics.
func (c *ClassMap) TypePair() string {
	return c.A.Name + "->" + c.B.Name
}

// Reverse returns the B -> A class map. One-way fields and source-less
// default rules are dropped.
func (c *ClassMap) Reverse() *ClassMap {
	r := *c
	r.A, r.B = c.B, c.A
	r.Reversed = true
	r.Fields = make([]FieldMap, 0, len(c.Fields))

	for _, f := range c.Fields {
		if f.OneWay || f.A == "" {
			continue
		}

		rf := f.Reverse()
		// Defaults describe the B side only.
		rf.Default = nil
		r.Fields = append(r.Fields, rf)
	}

	return &r
}

// FieldFor returns the explicit rule whose source path is path, if any.
func (c *ClassMap) FieldFor(path string) (FieldMap, bool) {
	for _, f := range c.Fields {
		if f.A == path {
			return f, true
		}
	}

	return FieldMap{}, false
}

// Excludes reports whether the destination field name is excluded.
func (c *ClassMap) Excludes(dstField string) bool {
	for _, f := range c.Fields {
		if f.Exclude && f.B == dstField {
			return true
		}
	}

	return false
}
