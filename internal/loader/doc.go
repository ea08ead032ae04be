// Package loader turns mapping files and programmatically built mapping data
// into one merged rule set.
//
// Files are parsed and compiled concurrently; the result keeps the order in
// which the files were given, followed by the builder data. Every type name is
// resolved against a type graph seeded with registered types and with the
// types the sources carry themselves. Field paths, accessor methods, defaults
// and converter ids are validated before anything is merged.
//
// At most one source may declare the global configuration. Class maps that
// are not one-way also register their reverse direction, unless an explicit
// class map for that direction exists.
package loader
