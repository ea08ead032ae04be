package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mf, nil
}

// Parse parses YAML data into a MappingFile. Unknown keys are rejected so
// that a misspelled option does not silently fall back to a default.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&mf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// NormalizeTypeMapping expands 121 shorthand into Fields entries
// and ensures all mappings are in canonical form.
func NormalizeTypeMapping(tm *TypeMapping) {
	if len(tm.OneToOne) == 0 {
		return
	}

	sources := make([]string, 0, len(tm.OneToOne))
	for source := range tm.OneToOne {
		sources = append(sources, source)
	}

	sort.Strings(sources)

	expanded := make([]FieldMapping, 0, len(sources))
	for _, source := range sources {
		expanded = append(expanded, FieldMapping{
			Source: FieldRefArray{{Path: source}},
			Target: FieldRefArray{{Path: tm.OneToOne[source]}},
		})
	}

	// 121 has highest priority, so it goes first
	tm.Fields = append(expanded, tm.Fields...)
	tm.OneToOne = nil
}

// NormalizeMappingFile normalizes all type mappings in a file.
func NormalizeMappingFile(mf *MappingFile) {
	for i := range mf.TypeMappings {
		NormalizeTypeMapping(&mf.TypeMappings[i])
	}
}
