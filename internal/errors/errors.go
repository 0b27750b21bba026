package errors

import (
	"errors"
	"fmt"
)

// Codes carried in AppError.Code. They are stable and safe to show to API clients.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeStorage          = "STORAGE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnknown          = "UNKNOWN_ERROR"
)

// storageUserMessage hides backend details from whoever reads the message.
const storageUserMessage = "A storage error occurred. Please try again."

func newAppError(errorType ErrorType, code string, cause error, kv ...interface{}) *AppError {
	e := &AppError{Type: errorType, Code: code, Cause: cause, Context: map[string]interface{}{}}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Context[kv[i].(string)] = kv[i+1]
	}
	return e
}

// NewValidationError reports a task record that breaks a field rule.
// The field problems usually travel as cause.
func NewValidationError(message string, cause error) *AppError {
	e := newAppError(ErrorTypeValidation, CodeValidationFailed, cause)
	e.Message = message
	return e
}

// NewNotFoundError reports a lookup for a key that is not stored
func NewNotFoundError(resource string, identifier string) *AppError {
	e := newAppError(ErrorTypeNotFound, CodeNotFound, nil, "resource", resource, "identifier", identifier)
	e.Message = resource + " not found: " + identifier
	return e
}

// NewConflictError reports a create that hit an existing key
func NewConflictError(resource string, identifier string) *AppError {
	e := newAppError(ErrorTypeConflict, CodeConflict, nil, "resource", resource, "identifier", identifier)
	e.Message = resource + " already exists: " + identifier
	return e
}

// NewUnauthorizedError reports a user who is not among the task's approvers
func NewUnauthorizedError(user string, operation string, resource string) *AppError {
	e := newAppError(ErrorTypeUnauthorized, CodeUnauthorized, nil, "user", user, "operation", operation, "resource", resource)
	e.Message = fmt.Sprintf("user %q is not an approver for %s on %s", user, operation, resource)
	return e
}

// NewStorageError wraps a backend failure during operation
func NewStorageError(operation string, cause error) *AppError {
	e := newAppError(ErrorTypeStorage, CodeStorage, cause, "operation", operation)
	e.Message = "storage operation failed: " + operation
	return e
}

// NewInvalidInputError reports a malformed argument that never reached the store
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	e := newAppError(ErrorTypeInvalidInput, CodeInvalidInput, nil, "field", field, "value", value, "reason", reason)
	e.Message = fmt.Sprintf("invalid input for %s: %s", field, reason)
	return e
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return nil, false
	}
	return appErr, true
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

func IsNotFound(err error) bool { return IsErrorType(err, ErrorTypeNotFound) }
func IsConflict(err error) bool { return IsErrorType(err, ErrorTypeConflict) }
func IsUnauthorized(err error) bool { return IsErrorType(err, ErrorTypeUnauthorized) }

// GetUserMessage returns the text a CLI or HTTP client should see.
// Caller errors are shown as they are; storage details are withheld.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	switch {
	case !ok:
		return err.Error()
	case !appErr.Type.IsCallerError():
		return storageUserMessage
	case appErr.Type == ErrorTypeValidation && appErr.Cause != nil:
		return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	default:
		return appErr.Message
	}
}

// GetErrorCode returns the code of an AppError, or CodeUnknown
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeUnknown
}

// ShouldLogError reports whether err is a store failure worth logging.
// Caller errors are not.
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !appErr.Type.IsCallerError()
	}
	return true
}
