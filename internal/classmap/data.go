package classmap

import (
	"reflect"
)

// SourceBuilder names rule sets contributed programmatically.
const SourceBuilder = "builder"

// MappingFileData is what one source contributes to the rule set.
type MappingFileData struct {
	Source string
	// Configuration is nil when the source declares no global section.
	Configuration *Configuration
	ClassMaps     []*ClassMap
	// Types lists the runtime types the source refers to, so that the loader
	// can resolve names without a prior registration.
	Types []reflect.Type
}

// AddType records t unless it is already listed.
func (d *MappingFileData) AddType(t reflect.Type) {
	if t == nil {
		return
	}

	for _, known := range d.Types {
		if known == t {
			return
		}
	}

	d.Types = append(d.Types, t)
}
