package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_Describe(t *testing.T) {
	tests := []struct {
		name           string
		errorType      ErrorType
		expectedName   string
		expectedResult Outcome
		callerError    bool
	}{
		{"should describe validation", ErrorTypeValidation, "validation", OutcomeInvalid, true},
		{"should describe not found", ErrorTypeNotFound, "not_found", OutcomeNotFound, true},
		{"should describe conflict", ErrorTypeConflict, "conflict", OutcomeConflict, true},
		{"should describe unauthorized", ErrorTypeUnauthorized, "unauthorized", OutcomeUnauthorized, true},
		{"should describe storage", ErrorTypeStorage, "storage", OutcomeStorageFailure, false},
		{"should describe invalid input", ErrorTypeInvalidInput, "invalid_input", OutcomeInvalid, true},
		{"should fall back for unknown types", ErrorType(999), "unknown", OutcomeStorageFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedName, tt.errorType.String())
			assert.Equal(t, tt.expectedResult, tt.errorType.Outcome())
			assert.Equal(t, tt.callerError, tt.errorType.IsCallerError())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name:     "should prefix the message with the type",
			appError: &AppError{Type: ErrorTypeConflict, Message: "task already exists: T1"},
			expected: "conflict: task already exists: T1",
		},
		{
			name: "should append the cause",
			appError: &AppError{
				Type:    ErrorTypeStorage,
				Message: "write failed",
				Cause:   errors.New("disk full"),
			},
			expected: "storage: write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	appError := &AppError{Type: ErrorTypeStorage, Message: "wrapped error", Cause: cause}

	assert.Same(t, cause, appError.Unwrap())
	assert.ErrorIs(t, appError, cause)
}

func TestAppError_Is(t *testing.T) {
	err := NewNotFoundError("task", "T1")

	assert.ErrorIs(t, err, &AppError{Type: ErrorTypeNotFound, Code: CodeNotFound})
	assert.NotErrorIs(t, err, &AppError{Type: ErrorTypeConflict, Code: CodeConflict})
	assert.NotErrorIs(t, err, &AppError{Type: ErrorTypeNotFound, Code: CodeConflict})
}

func TestAppError_WithContext(t *testing.T) {
	err := (&AppError{Type: ErrorTypeStorage}).WithContext("path", "/tmp/x.json")

	value, ok := err.GetContext("path")
	assert.True(t, ok)
	assert.Equal(t, "/tmp/x.json", value)

	_, ok = err.GetContext("missing")
	assert.False(t, ok)

	_, ok = (&AppError{}).GetContext("any")
	assert.False(t, ok)
}
