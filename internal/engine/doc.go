// Package engine performs the actual mapping between two beans with reflect.
//
// A Processor is built from the merged rule set of a mapper and is safe for
// concurrent use. For every bean pair it looks up the class map (or uses an
// implicit one), applies the explicit field rules, then maps the remaining
// fields by name when wildcard mapping is on. Values are copied deeply:
// nested beans, pointers, slices, arrays and maps are rebuilt on the
// destination side.
//
// Conversion order for one value:
//  1. a custom converter chosen by id, by configured type pair, or by Accepts
//  2. copy by reference, when the rule asks for it
//  3. the strategy chosen from the two types (see Strategy)
//
// Converter lookups are cached in the CONVERTER_BY_DEST_TYPE region and type
// checks in the SUPER_TYPE_CHECK region of the mapper cache manager.
package engine
