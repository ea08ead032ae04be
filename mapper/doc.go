// Package mapper is the entry point of the library: a long-lived BeanMapper
// that copies data between differently shaped structs.
//
// A BeanMapper is configured once and then used from any number of
// goroutines. Rules come from YAML mapping files and from mappings declared
// with the builder package. They are loaded and merged lazily on the first
// mapping call, exactly once per mapper:
//
//	m, err := mapper.New(
//		mapper.WithMappingFiles("orders.yaml"),
//		mapper.WithTypes(store.Order{}, warehouse.Order{}),
//		mapper.WithCustomConvertersWithID(map[string]any{"cents": centsToAmount}),
//	)
//	if err != nil {
//		return err
//	}
//	defer m.Destroy()
//
//	var dst warehouse.Order
//	err = m.Map(&src, &dst)
//
// Initialization gate: the first caller loads the rule set while holding the
// gate; concurrent callers block until it finishes and then see the complete
// rule set. A failed load leaves the mapper uninitialized so that the next
// call retries. After a successful load every configuration method fails
// with ErrAlreadyInitialized.
//
// Each mapper owns its caches. Statistics and the library runtime are shared
// by every mapper of the process unless WithStatistics or WithRuntime inject
// separate ones. When statistics are enabled, MappingProcessor returns the
// engine wrapped in a recorder; the decision is taken on every call.
//
// Destroy releases the mapper's reference on the shared runtime. A destroyed
// mapper fails every further call with ErrDestroyed.
package mapper
