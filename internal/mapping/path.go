package mapping

import (
	"errors"
	"fmt"
	"strings"

	"beanmapper/internal/analyze"
	"beanmapper/internal/match"
)

// ParsePath parses a field path string into a FieldPath.
// Supports: "Field", "Nested.Field", "Items[]", "Items[].ProductID".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, errors.New("empty path")
	}

	var segments []PathSegment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return FieldPath{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		isSlice := false
		name := part

		if strings.HasSuffix(part, "[]") {
			isSlice = true
			name = strings.TrimSuffix(part, "[]")

			if name == "" {
				return FieldPath{}, fmt.Errorf("invalid path %q: slice without field name", path)
			}
		}

		if !isValidIdent(name) {
			return FieldPath{}, fmt.Errorf("invalid path %q: invalid identifier %q", path, name)
		}

		segments = append(segments, PathSegment{
			Name:    name,
			IsSlice: isSlice,
		})
	}

	return FieldPath{Segments: segments}, nil
}

// PathError reports a path segment that does not resolve on a type.
type PathError struct {
	Path        string
	Segment     string
	Reason      string
	Suggestions []string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q at %q: %s", e.Path, e.Segment, e.Reason)
}

// ResolvePath walks path over typeInfo and returns the type of the last
// segment. Pointers are dereferenced along the way.
func ResolvePath(path FieldPath, typeInfo *analyze.TypeInfo) (*analyze.TypeInfo, error) {
	current := typeInfo
	for _, seg := range path.Segments {
		current = deref(current)
		if current == nil {
			return nil, &PathError{Path: path.String(), Segment: seg.Name, Reason: "nil type"}
		}

		if current.Kind != analyze.TypeKindStruct {
			return nil, &PathError{
				Path:    path.String(),
				Segment: seg.Name,
				Reason:  fmt.Sprintf("cannot access field on non-struct kind %s", current.Kind),
			}
		}

		fld := current.Field(seg.Name)
		if fld == nil {
			return nil, &PathError{
				Path:        path.String(),
				Segment:     seg.Name,
				Reason:      fmt.Sprintf("field not found in %s", current.ID),
				Suggestions: match.Suggest(seg.Name, current.FieldNames(), match.DefaultLimit),
			}
		}

		if !fld.Exported {
			return nil, &PathError{Path: path.String(), Segment: seg.Name, Reason: "field is not exported"}
		}

		current = fld.Type

		if seg.IsSlice {
			current = deref(current)
			if current == nil || (current.Kind != analyze.TypeKindSlice && current.Kind != analyze.TypeKindArray) {
				return nil, &PathError{Path: path.String(), Segment: seg.Name, Reason: "[] used on a non-slice field"}
			}

			current = current.ElemType
		}
	}

	return current, nil
}

func deref(t *analyze.TypeInfo) *analyze.TypeInfo {
	for t != nil && t.Kind == analyze.TypeKindPointer {
		t = t.ElemType
	}

	return t
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
