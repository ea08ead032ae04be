// Package analyze builds the type graph the loader resolves mapping-file type
// names against.
//
// Types enter the graph as reflect.Type values: registered explicitly on the
// mapper, referenced by builder type definitions, or reached through the
// fields of a registered struct. A name in a mapping file may be written
// fully qualified ("beanmapper/internal/fixture/store.Order"), with the
// package alias only ("store.Order"), or as a bare name ("Order") when it is
// unambiguous.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/pointer/slice/map/...) and fields
//   - FieldInfo: describes field name, type, tags, and embedding
//   - TypeGraph: the registry of named types
package analyze
