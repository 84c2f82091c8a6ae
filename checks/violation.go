package checks

import "fmt"

// Code labels the category of a validation failure.
type Code string

const (
	CodeTypeKindMismatch     Code = "TYPE_KIND_MISMATCH"
	CodeInstanceMismatch     Code = "INSTANCE_MISMATCH"
	CodeNotAnArray           Code = "NOT_AN_ARRAY"
	CodeUnionMismatch        Code = "UNION_MISMATCH"
	CodeNotAnObject          Code = "NOT_AN_OBJECT"
	CodeValidationFailed     Code = "VALIDATION_FAILED"
	CodeNotANumber           Code = "NOT_A_NUMBER"
	CodeRangeViolation       Code = "RANGE_VIOLATION"
	CodeLengthViolation      Code = "LENGTH_VIOLATION"
	CodeMissingRequiredField Code = "MISSING_REQUIRED_FIELD"
	CodeFormatViolation      Code = "FORMAT_VIOLATION"
	CodePatternViolation     Code = "PATTERN_VIOLATION"
	CodeInvalidPattern       Code = "INVALID_PATTERN"
)

// Violation represents a single validation failure. It implements error so
// the engine can return it directly when configured to raise.
type Violation struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface for Violation.
func (v *Violation) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", v.Field, v.Message)
	}
	return fmt.Sprintf("validation error: %s", v.Message)
}

// WithField returns a copy of the violation annotated with the field path
// it occurred at. Safe to call on a nil violation.
func (v *Violation) WithField(field string) *Violation {
	if v == nil {
		return nil
	}
	copied := *v
	copied.Field = field
	return &copied
}

// MissingField reports a declared field that is absent from the value
// under validation.
func MissingField(field string) *Violation {
	return &Violation{
		Code:    CodeMissingRequiredField,
		Field:   field,
		Message: "required field is missing",
	}
}
