// Package mapping parses YAML mapping files and compiles them into rule-set
// data for the mapper.
//
// # Schema Overview
//
//	version: "1"
//	configuration:              # at most one source may declare it
//	  stop_on_errors: true
//	  wildcard: true
//	  map_null: true
//	  date_format: RFC3339      # a time package layout name or a layout
//	  conversions: [safe_number, text_number, datetime]
//	  custom_converters:
//	    - converter: cents      # id registered on the mapper
//	      source: int64
//	      target: float64
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    map_id: summary
//	    one_way: false
//	    target_def:
//	      create_method: Init
//	      map_null: false
//	    121:                    # shorthand 1:1 field pairs
//	      CustomerName: Customer
//	    fields:
//	      - source: TotalCents
//	        target: Amount
//	        converter: cents
//	      - source: {Items: final}
//	        target: Items
//	      - target: Note
//	        default: "n/a"
//	    ignore:
//	      - Internal
//
// # Cardinality
//
// A field mapping is 1:1 or 1:N (one source copied into several targets).
// N:1 and N:M mappings are rejected: combining fields is the job of a custom
// converter registered for the parent types.
//
// # Pipeline
//
// Parse decodes a file strictly (unknown keys fail). Compile turns the file
// into classmap.MappingFileData with type names kept as written. Validate
// resolves those names against an analyze.TypeGraph and checks field paths,
// accessor methods, defaults and converter references.
package mapping
