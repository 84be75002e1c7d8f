package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrDuplicateID   = errors.New("duplicate entry id")
)

// ConfigurationError reports an unusable collection base directory or
// pattern. It aborts the whole load.
type ConfigurationError struct {
	Dir string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("content directory %s: %v", e.Dir, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type FieldErrorKind string

const (
	KindMissingField FieldErrorKind = "missing_field"
	KindTypeMismatch FieldErrorKind = "type_mismatch"
	KindInvalidDate  FieldErrorKind = "invalid_date"
	KindEmptyField   FieldErrorKind = "empty_field"
)

// FieldError describes one front matter field that failed validation.
type FieldError struct {
	Kind     FieldErrorKind `json:"kind"`
	Field    string         `json:"field"`
	Expected string         `json:"expected,omitempty"`
	Actual   any            `json:"actual,omitempty"`
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("%s: required field is missing", e.Field)
	case KindTypeMismatch:
		return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, typeName(e.Actual))
	case KindInvalidDate:
		return fmt.Sprintf("%s: invalid date %v", e.Field, e.Actual)
	case KindEmptyField:
		return fmt.Sprintf("%s: must not be empty", e.Field)
	default:
		return fmt.Sprintf("%s: %s", e.Field, e.Kind)
	}
}

func missingField(field string) *FieldError {
	return &FieldError{Kind: KindMissingField, Field: field}
}

func typeMismatch(field, expected string, actual any) *FieldError {
	return &FieldError{Kind: KindTypeMismatch, Field: field, Expected: expected, Actual: actual}
}

func invalidDate(field string, actual any) *FieldError {
	return &FieldError{Kind: KindInvalidDate, Field: field, Expected: "date", Actual: actual}
}

// ValidationError carries every field failure of one front matter mapping.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid front matter: " + strings.Join(msgs, "; ")
}

// Field returns the first failure recorded for field, or nil.
func (e *ValidationError) Field(field string) *FieldError {
	for _, f := range e.Fields {
		if f.Field == field {
			return f
		}
	}
	return nil
}

// HasKind reports whether field failed with the given kind.
func (e *ValidationError) HasKind(field string, kind FieldErrorKind) bool {
	f := e.Field(field)
	return f != nil && f.Kind == kind
}

// ParseError reports front matter that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse front matter: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileError attributes a content failure to the file it came from.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FileErrors flattens a load error into its per-file failures.
func FileErrors(err error) []*FileError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*FileError
		for _, e := range joined.Unwrap() {
			out = append(out, FileErrors(e)...)
		}
		return out
	}
	var fe *FileError
	if errors.As(err, &fe) {
		return []*FileError{fe}
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
