package cli

import (
	stderrors "errors"
	"fmt"

	"task-approvals/internal/errors"
	"task-approvals/internal/validation"
)

// ErrorHandler turns store errors into the messages commands print
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Exit statuses returned by the ta binary
const (
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
	ExitUnauthorized = 4
	ExitStorage      = 5
)

// commandError carries the printed message while keeping the original
// error reachable for classification.
type commandError struct {
	message string
	err     error
}

func (e *commandError) Error() string { return e.message }
func (e *commandError) Unwrap() error { return e.err }

// userMessage picks the text a terminal user should see for err.
// ok is false for errors outside the validation and AppError families.
func userMessage(err error) (message string, ok bool) {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return ve.GetUserFriendlyMessage(), true
	}
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err), true
	}
	return "", false
}

// Handle prefixes err with the failed operation, as in "failed to show task: ..."
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if message, ok := userMessage(err); ok {
		return &commandError{message: fmt.Sprintf("failed to %s: %s", operation, message), err: err}
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple is Handle without the operation prefix. Errors that already
// went through Handle are returned as they are.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	var handled *commandError
	if stderrors.As(err, &handled) {
		return err
	}
	if message, ok := userMessage(err); ok {
		return &commandError{message: message, err: err}
	}
	return err
}

// ExitCode maps err to the status the process should exit with
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case eh.IsValidationError(err):
		return ExitInvalidInput
	case eh.IsNotFoundError(err):
		return ExitNotFound
	case eh.IsUnauthorizedError(err):
		return ExitUnauthorized
	case eh.IsStorageError(err):
		return ExitStorage
	default:
		return ExitFailure
	}
}

// Report renders an error returned by RootCommand.Execute for stderr and
// picks the exit status.
func Report(err error) (message string, code int) {
	eh := NewErrorHandler()
	if err == nil {
		return "", 0
	}
	return eh.HandleSimple(err).Error(), eh.ExitCode(err)
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) || errors.IsErrorType(err, errors.ErrorTypeInvalidInput)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsNotFound(err)
}

// IsUnauthorizedError checks if the caller was not an approver
func (eh *ErrorHandler) IsUnauthorizedError(err error) bool {
	return errors.IsUnauthorized(err)
}

// IsStorageError checks if an error is a storage error
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage)
}
