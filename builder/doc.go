// Package builder declares mappings in code instead of mapping files.
//
// A TypeDefinition carries the per-type attributes of one side of a mapping:
// bean factory, create method, factory bean id, null and empty-string
// handling, and accessor methods for map-backed beans. Setters return the
// receiver so definitions read as one chain:
//
//	builder.TypeFor[warehouse.Record]().
//		MapMethods("Get", "Set").
//		MapNull(false)
//
// A BeanMappingBuilder groups type mappings and their field rules:
//
//	b := builder.NewMapping(func(b *builder.BeanMappingBuilder) {
//		b.Mapping(store.Order{}, warehouse.Order{}, builder.MapID("order")).
//			Fields("CustomerName", "Customer").
//			Fields("TotalCents", "Amount", builder.Converter("cents")).
//			Exclude("Internal")
//	})
//
// Nothing is validated here. Unknown fields, unknown converters and
// contradictory attributes are reported when the mapper loads its rule set.
package builder
