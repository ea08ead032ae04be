package analyze

import (
	"reflect"
	"sort"
	"strings"
	"time"
)

// TypeGraph holds every named type known to a mapper instance.
// It is built during the single-threaded setup phase and only read afterwards.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo

	cache map[reflect.Type]*TypeInfo
}

var predeclared = []reflect.Type{
	reflect.TypeOf(false),
	reflect.TypeOf(""),
	reflect.TypeOf(int(0)),
	reflect.TypeOf(int8(0)),
	reflect.TypeOf(int16(0)),
	reflect.TypeOf(int32(0)),
	reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint(0)),
	reflect.TypeOf(uint8(0)),
	reflect.TypeOf(uint16(0)),
	reflect.TypeOf(uint32(0)),
	reflect.TypeOf(uint64(0)),
	reflect.TypeOf(uintptr(0)),
	reflect.TypeOf(float32(0)),
	reflect.TypeOf(float64(0)),
	reflect.TypeOf(complex64(0)),
	reflect.TypeOf(complex128(0)),
	reflect.TypeOf(time.Time{}),
	reflect.TypeOf(time.Duration(0)),
}

// NewTypeGraph creates a graph pre-populated with the predeclared basic types
// plus time.Time and time.Duration.
func NewTypeGraph() *TypeGraph {
	g := &TypeGraph{
		Types: make(map[TypeID]*TypeInfo),
		cache: make(map[reflect.Type]*TypeInfo),
	}

	for _, t := range predeclared {
		g.Add(t)
	}

	return g
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// AddValue registers the type of v. Pointers are dereferenced so that
// AddValue(&Order{}) and AddValue(Order{}) are equivalent.
func (g *TypeGraph) AddValue(v any) *TypeInfo {
	if v == nil {
		return nil
	}

	return g.Add(reflect.TypeOf(v))
}

// Add registers t (after stripping pointers) and every named type reachable
// through its fields, and returns its TypeInfo.
func (g *TypeGraph) Add(t reflect.Type) *TypeInfo {
	if t == nil {
		return nil
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return g.analyzeType(t)
}

// analyzeType recursively analyzes a reflect.Type and returns a TypeInfo.
func (g *TypeGraph) analyzeType(t reflect.Type) *TypeInfo {
	if cached, ok := g.cache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		ID:   IDOf(t),
		Type: t,
	}

	// Pre-cache to handle recursive types (details are filled in below)
	g.cache[t] = info
	if info.IsNamed() {
		g.Types[info.ID] = info
	}

	switch t.Kind() {
	case reflect.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Array:
		info.Kind = TypeKindArray
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Map:
		info.Kind = TypeKindMap
		info.KeyType = g.analyzeType(t.Key())
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Interface:
		info.Kind = TypeKindInterface

	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			info.Kind = TypeKindExternal
			break
		}

		info.Kind = TypeKindStruct
		info.Fields = make([]FieldInfo, 0, t.NumField())

		for i := range t.NumField() {
			sf := t.Field(i)
			info.Fields = append(info.Fields, FieldInfo{
				Name:     sf.Name,
				Exported: sf.IsExported(),
				Type:     g.analyzeType(sf.Type),
				Tag:      sf.Tag,
				Embedded: sf.Anonymous,
				Index:    i,
			})
		}

	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		info.Kind = TypeKindUnknown

	default:
		info.Kind = TypeKindBasic
	}

	return info
}

// Resolve resolves a type name like:
//   - "beanmapper/internal/fixture/store.Order" (full)
//   - "store.Order" (short)
//   - "Order" or "int" (name only; best-effort, first match in sorted order).
func (g *TypeGraph) Resolve(name string) *TypeInfo {
	if g == nil || name == "" {
		return nil
	}

	name = strings.TrimPrefix(name, "*")

	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		if t := g.GetType(TypeID{Name: name}); t != nil {
			return t
		}

		for _, id := range g.sortedIDs() {
			if id.Name == name {
				return g.Types[id]
			}
		}

		return nil
	}

	pkgStr := name[:lastDot]
	typeName := name[lastDot+1:]

	if pkgStr == "" || typeName == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := g.GetType(TypeID{PkgPath: pkgStr, Name: typeName}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.Order")
	for _, id := range g.sortedIDs() {
		if id.Name != typeName {
			continue
		}

		if id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return g.Types[id]
		}
	}

	return nil
}

// Names returns the short names ("store.Order", "int") of all named types, sorted.
func (g *TypeGraph) Names() []string {
	ids := g.sortedIDs()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, id.Short())
	}

	return names
}

// Merge adds every named type of other into g.
func (g *TypeGraph) Merge(other *TypeGraph) {
	if other == nil {
		return
	}

	for _, info := range other.Types {
		if info.Type != nil {
			g.Add(info.Type)
		}
	}
}

func (g *TypeGraph) sortedIDs() []TypeID {
	ids := make([]TypeID, 0, len(g.Types))
	for id := range g.Types {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].PkgPath != ids[j].PkgPath {
			return ids[i].PkgPath < ids[j].PkgPath
		}

		return ids[i].Name < ids[j].Name
	})

	return ids
}
