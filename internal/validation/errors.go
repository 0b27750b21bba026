package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType classifies a rejected field
type ValidationErrorType string

const (
	ErrorTypeRequired         ValidationErrorType = "required"
	ErrorTypeInvalidLength    ValidationErrorType = "invalid_length"
	ErrorTypeInvalidCharacter ValidationErrorType = "invalid_character"
)

// fieldLabels turns record field keys into the words shown to users.
var fieldLabels = map[string]string{
	"task_name": "task name",
	"approver1": "approver 1",
	"approver2": "approver 2",
	"approver3": "approver 3",
}

func labelFor(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// FieldError is one rejected field of a task record
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError collects every problem found in one task record, so a
// caller can fix them all in a single round trip.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: []FieldError{}}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "task record is invalid"
	case 1:
		return ve.Errors[0].Error()
	}

	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = ve.Errors[i].Error()
	}
	return "task record is invalid: " + strings.Join(parts, "; ")
}

// IsValidationError checks if an error is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasErrors reports whether any field was rejected
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Merge appends the field errors of other
func (ve *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	ve.Errors = append(ve.Errors, other.Errors...)
}

func (ve *ValidationError) add(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
		Value:   value,
	})
}

// AddRequiredError records a field that is empty or only whitespace
func (ve *ValidationError) AddRequiredError(field string) {
	ve.add(field, ErrorTypeRequired, labelFor(field)+" is required", nil)
}

// AddInvalidLengthError records a field whose character count is outside min..max
func (ve *ValidationError) AddInvalidLengthError(field string, value string, min, max int) {
	message := fmt.Sprintf("%s must be %d to %d characters long", labelFor(field), min, max)
	ve.add(field, ErrorTypeInvalidLength, message, value)
}

// AddInvalidCharacterError records a field holding control characters or invalid UTF-8
func (ve *ValidationError) AddInvalidCharacterError(field string, value string) {
	ve.add(field, ErrorTypeInvalidCharacter, labelFor(field)+" must be printable text", value)
}

// GetFieldErrors returns the errors recorded for field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage joins the field messages into one sentence-per-line reply
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) == 0 {
		return "the task record is invalid"
	}

	messages := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "\n")
}
