package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"beanmapper/internal/common"
)

// ErrInvalidMapping is the sentinel every validation failure unwraps to.
var ErrInvalidMapping = errors.New("invalid mapping definition")

// Diagnostic codes.
const (
	CodeParse             = "parse"
	CodeUnknownType       = "unknown_type"
	CodeUnknownField      = "unknown_field"
	CodeDuplicateMapping  = "duplicate_mapping"
	CodeDuplicateGlobal   = "duplicate_configuration"
	CodeUnknownConverter  = "unknown_converter"
	CodeInvalidDefault    = "invalid_default"
	CodeIncompatibleField = "incompatible_field"
	CodeInvalidOption     = "invalid_option"
	CodeUnusedConverter   = "unused_converter"
)

// Diagnostics holds all diagnostic information from a load.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	// Code is a unique identifier for this kind of diagnostic.
	Code    string
	Message string
	// Source is the mapping file (or "builder") the finding came from.
	Source string
	// TypePair identifies which type mapping this relates to (if any).
	TypePair string
	// FieldPath identifies which field this relates to (if any).
	FieldPath string
	// Suggestions are close names the user may have meant.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the matching severity list.
func (d *Diagnostics) Add(diag Diagnostic) {
	if diag.Severity == SeverityError {
		d.Errors = append(d.Errors, diag)

		return
	}

	d.Warnings = append(d.Warnings, diag)
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, fieldPath string, suggestions ...string) {
	d.Add(Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		FieldPath:   fieldPath,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typePair, fieldPath string) {
	d.Add(Diagnostic{
		Severity:  SeverityWarning,
		Code:      code,
		Message:   message,
		TypePair:  typePair,
		FieldPath: fieldPath,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one, stamping source
// on entries that do not carry one yet.
func (d *Diagnostics) Merge(other Diagnostics, source string) {
	for _, e := range other.Errors {
		if e.Source == "" {
			e.Source = source
		}

		d.Errors = append(d.Errors, e)
	}

	for _, w := range other.Warnings {
		if w.Source == "" {
			w.Source = source
		}

		d.Warnings = append(d.Warnings, w)
	}
}

// Err returns a *ValidationError for the collected errors, or nil.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	return &ValidationError{Errors: append([]Diagnostic(nil), d.Errors...)}
}

// ValidationError reports every error diagnostic of a failed load.
type ValidationError struct {
	Errors []Diagnostic
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		parts = append(parts, d.String())
	}

	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalidMapping.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidMapping
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Source != "" {
		prefix = append(prefix, d.Source)
	}

	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
