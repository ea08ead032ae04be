package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"beanmapper/internal/common"
)

// StringOrArray accepts a single string or a list of strings, so that
// conversions can be written as "all" or as [text_number, datetime].
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		*s = StringOrArray{}
		if str != "" {
			*s = StringOrArray{str}
		}

		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}

		*s = list

		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// MarshalYAML writes a single entry as a plain string.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if nothing was given.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// UnmarshalYAML implements yaml.Unmarshaler. Each entry is a path ("Name") or
// a one-key map from path to hint ({Name: final}); a single entry may be
// given without the list.
func (f *FieldRefArray) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		ref, err := fieldRefOf(node)
		if err != nil {
			return err
		}

		*f = FieldRefArray{}
		if ref.Path != "" {
			*f = FieldRefArray{ref}
		}

		return nil
	}

	refs := make(FieldRefArray, 0, len(node.Content))

	for _, item := range node.Content {
		ref, err := fieldRefOf(item)
		if err != nil {
			return err
		}

		refs = append(refs, ref)
	}

	*f = refs

	return nil
}

func fieldRefOf(node *yaml.Node) (FieldRef, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var path string
		if err := node.Decode(&path); err != nil {
			return FieldRef{}, err
		}

		return FieldRef{Path: path}, nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return FieldRef{}, fmt.Errorf("line %d: a field with a hint is a single-key map like {Name: final}", node.Line)
		}

		var path, hint string
		if err := node.Content[0].Decode(&path); err != nil {
			return FieldRef{}, fmt.Errorf("line %d: invalid field path: %w", node.Line, err)
		}

		if err := node.Content[1].Decode(&hint); err != nil {
			return FieldRef{}, fmt.Errorf("line %d: invalid hint: %w", node.Line, err)
		}

		ref := FieldRef{Path: path, Hint: IntrospectionHint(hint)}
		if !ref.Hint.IsValid() {
			return FieldRef{}, fmt.Errorf("line %d: invalid hint %q, expected %q or %q", node.Line, hint, HintDive, HintFinal)
		}

		return ref, nil
	default:
		return FieldRef{}, fmt.Errorf("line %d: expected a field path or a {path: hint} map", node.Line)
	}
}

// MarshalYAML writes the shortest form that reads back to the same value.
func (f FieldRefArray) MarshalYAML() (any, error) {
	items := make([]any, 0, len(f))

	for _, ref := range f {
		if ref.Hint == HintNone {
			items = append(items, ref.Path)
		} else {
			items = append(items, map[string]string{ref.Path: string(ref.Hint)})
		}
	}

	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return items[0], nil
	default:
		return items, nil
	}
}
