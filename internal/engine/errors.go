package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNilSource          = errors.New("source is nil")
	ErrInvalidDestination = errors.New("destination must be a non-nil pointer")
	ErrNilDestinationType = errors.New("destination type is nil")
	ErrMapIDNotFound      = errors.New("class mapping not found for map id")
	ErrUnknownConverter   = errors.New("custom converter not registered")
	ErrUnknownFactory     = errors.New("bean factory not registered")
	ErrUnknownField       = errors.New("field not found")
	ErrIncompatibleTypes  = errors.New("incompatible types")
	ErrInvalidBean        = errors.New("bean has unexpected type")
	ErrMaxDepth           = errors.New("maximum mapping depth exceeded")

	// ErrSkipField may be returned by a custom converter to leave the
	// destination field untouched.
	ErrSkipField = errors.New("skip field")
)

// MappingError reports a failed mapping with the type pair and the field path
// where it failed. It unwraps to the cause.
type MappingError struct {
	SrcType string
	DstType string
	MapID   string
	// Field is the dotted destination path, empty for bean-level failures.
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	var sb strings.Builder

	sb.WriteString("failed to map ")
	sb.WriteString(e.SrcType)
	sb.WriteString(" -> ")
	sb.WriteString(e.DstType)

	if e.MapID != "" {
		sb.WriteString(" [" + e.MapID + "]")
	}

	if e.Field != "" {
		sb.WriteString(" field " + e.Field)
	}

	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())

	return sb.String()
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// atIndex puts the element index of a failed sequence element in front of
// the nested field path.
func atIndex(i int, err error) error {
	var nested *MappingError
	if !errors.As(err, &nested) {
		return fmt.Errorf("element %d: %w", i, err)
	}

	path := fmt.Sprintf("[%d]", i)
	if nested.Field != "" {
		path += "." + nested.Field
	}

	return &MappingError{SrcType: nested.SrcType, DstType: nested.DstType, MapID: nested.MapID, Field: path, Err: nested.Err}
}

// withField prefixes the field path of a nested failure, or wraps a plain
// error into a MappingError for the given pair.
func withField(src, dst, mapID, field string, err error) *MappingError {
	var nested *MappingError
	if errors.As(err, &nested) {
		path := field
		switch {
		case strings.HasPrefix(nested.Field, "["):
			path = field + nested.Field
		case nested.Field != "":
			path = field + "." + nested.Field
		}

		return &MappingError{SrcType: src, DstType: dst, MapID: mapID, Field: path, Err: nested.Err}
	}

	return &MappingError{SrcType: src, DstType: dst, MapID: mapID, Field: field, Err: err}
}
