package builder

import (
	"reflect"

	"beanmapper/internal/analyze"
)

// ClassDefinitionBuilder receives the attributes of a TypeDefinition.
// Unset attributes arrive as empty strings and nil pointers.
type ClassDefinitionBuilder interface {
	BeanFactory(name string)
	CreateMethod(name string)
	FactoryBeanID(id string)
	MapEmptyString(v *bool)
	MapNull(v *bool)
	MapGetMethod(name string)
	MapSetMethod(name string)
}

// TypeDefinition describes how one type takes part in a mapping.
type TypeDefinition struct {
	name string
	typ  reflect.Type

	beanFactory    string
	createMethod   string
	factoryBeanID  string
	mapEmptyString *bool
	mapNull        *bool
	mapGetMethod   string
	mapSetMethod   string
}

// NewTypeDefinition creates a definition for the type called name. The name
// is resolved when the mapper loads its rule set.
func NewTypeDefinition(name string) *TypeDefinition {
	return &TypeDefinition{name: name}
}

// TypeOf creates a definition for the type of v. v may also be a
// reflect.Type. Pointers are dereferenced.
func TypeOf(v any) *TypeDefinition {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}

	if t == nil {
		return &TypeDefinition{}
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return &TypeDefinition{name: analyze.IDOf(t).String(), typ: t}
}

// TypeFor creates a definition for T.
func TypeFor[T any]() *TypeDefinition {
	return TypeOf(reflect.TypeFor[T]())
}

// Name returns the type identity.
func (d *TypeDefinition) Name() string {
	return d.name
}

// Type returns the runtime type, or nil when the definition was created from
// a name.
func (d *TypeDefinition) Type() reflect.Type {
	return d.typ
}

// BeanFactory selects the factory registered under name.
func (d *TypeDefinition) BeanFactory(name string) *TypeDefinition {
	d.beanFactory = name

	return d
}

// BeanFactoryOf selects a factory by its type. The factory must also be
// registered with the mapper, which makes it available under its type name.
func (d *TypeDefinition) BeanFactoryOf(factory any) *TypeDefinition {
	d.beanFactory = FactoryName(factory)

	return d
}

func (d *TypeDefinition) CreateMethod(method string) *TypeDefinition {
	d.createMethod = method

	return d
}

// FactoryBeanID is passed to the bean factory to select what it creates.
func (d *TypeDefinition) FactoryBeanID(id string) *TypeDefinition {
	d.factoryBeanID = id

	return d
}

func (d *TypeDefinition) MapEmptyString(v bool) *TypeDefinition {
	d.mapEmptyString = &v

	return d
}

func (d *TypeDefinition) MapNull(v bool) *TypeDefinition {
	d.mapNull = &v

	return d
}

// MapMethods makes the bean map-backed: fields are read with get(name) and
// written with set(name, value).
func (d *TypeDefinition) MapMethods(get, set string) *TypeDefinition {
	d.mapGetMethod = get
	d.mapSetMethod = set

	return d
}

// Build writes every attribute into b, unset ones included.
func (d *TypeDefinition) Build(b ClassDefinitionBuilder) {
	b.BeanFactory(d.beanFactory)
	b.CreateMethod(d.createMethod)
	b.FactoryBeanID(d.factoryBeanID)

	b.MapEmptyString(d.mapEmptyString)
	b.MapNull(d.mapNull)

	b.MapGetMethod(d.mapGetMethod)
	b.MapSetMethod(d.mapSetMethod)
}

// FactoryName returns the name a factory value is registered under by type.
func FactoryName(factory any) string {
	t := reflect.TypeOf(factory)
	if t == nil {
		return ""
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return analyze.IDOf(t).String()
}
