package errors

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypeStorage
	ErrorTypeInvalidInput
)

type typeInfo struct {
	name    string
	outcome Outcome
	// caller errors are the caller's to fix and are not logged
	caller bool
}

var typeTable = map[ErrorType]typeInfo{
	ErrorTypeValidation:   {name: "validation", outcome: OutcomeInvalid, caller: true},
	ErrorTypeNotFound:     {name: "not_found", outcome: OutcomeNotFound, caller: true},
	ErrorTypeConflict:     {name: "conflict", outcome: OutcomeConflict, caller: true},
	ErrorTypeUnauthorized: {name: "unauthorized", outcome: OutcomeUnauthorized, caller: true},
	ErrorTypeStorage:      {name: "storage", outcome: OutcomeStorageFailure},
	ErrorTypeInvalidInput: {name: "invalid_input", outcome: OutcomeInvalid, caller: true},
}

// String returns the snake_case name of the error type
func (et ErrorType) String() string {
	if info, ok := typeTable[et]; ok {
		return info.name
	}
	return "unknown"
}

// Outcome returns the store outcome an error of this type ends in.
// Unknown types count as storage failures.
func (et ErrorType) Outcome() Outcome {
	if info, ok := typeTable[et]; ok {
		return info.outcome
	}
	return OutcomeStorageFailure
}

// IsCallerError reports whether the type describes a mistake by the caller
// rather than a failure of the store.
func (et ErrorType) IsCallerError() bool {
	return typeTable[et].caller
}

// AppError is the single error type the task store hands to its callers
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
}

// Unwrap exposes Cause to errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError with the same type and code
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext attaches a key/value pair and returns e for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = map[string]interface{}{}
	}
	e.Context[key] = value
	return e
}

// GetContext looks up a value attached with WithContext
func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, ok := e.Context[key]
	return value, ok
}
