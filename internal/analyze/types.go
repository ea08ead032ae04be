package analyze

import (
	"reflect"

	"beanmapper/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "beanmapper/internal/fixture/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	return common.QualifiedName(t.PkgPath, t.Name)
}

// Short returns the id with the package alias instead of the full path ("store.Order").
func (t TypeID) Short() string {
	return common.QualifiedName(common.PkgAlias(t.PkgPath), t.Name)
}

// IsZero reports whether the id names nothing (unnamed types like *T or []T).
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// IDOf returns the TypeID of a reflect type. Pointers are not dereferenced;
// unnamed types yield the zero id.
func IDOf(t reflect.Type) TypeID {
	if t == nil {
		return TypeID{}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindInterface          // interface type
	TypeKindExternal           // opaque type handled as a unit (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID       TypeID       // Unique identifier (empty for unnamed types like *T or []T)
	Kind     TypeKind     // Kind of type
	ElemType *TypeInfo    // For pointers, slices, arrays and maps, the element type
	KeyType  *TypeInfo    // For maps, the key type
	Fields   []FieldInfo  // For structs, the list of fields
	Type     reflect.Type // The runtime type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Field returns the field with the given name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// FieldNames returns the names of all exported fields.
func (t *TypeInfo) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Exported {
			names = append(names, f.Name)
		}
	}

	return names
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		for i := range len(tag) {
			if tag[i] == ',' {
				return tag[:i]
			}
		}

		return tag
	}

	return f.Name
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}
