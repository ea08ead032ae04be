// Package classmap holds the merged rule set a mapper runs on.
//
// A MappingFileData is what one source (a YAML file or a programmatic
// builder) contributes: an optional global Configuration and a list of
// ClassMaps. The loader merges every source into one ClassMappings plus one
// Configuration. Both are treated as read-only once loading finishes.
//
// ClassDefBuilder is the concrete receiver for builder.TypeDefinition.Build:
// it records per-type attributes (bean factory, create method, accessor
// methods, null handling) on a ClassDef.
package classmap
