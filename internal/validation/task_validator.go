package validation

import (
	"fmt"

	"task-approvals/internal/config"
	"task-approvals/internal/domain"
)

// TaskValidator checks task records before they reach a repository
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with the default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator that honours configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTaskName returns nil or a *ValidationError for the task_name field
func (tv *TaskValidator) ValidateTaskName(name string) error {
	ve := tv.checkName(name)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func (tv *TaskValidator) checkName(name string) *ValidationError {
	ve := NewValidationError()
	if tv.validator.IsBlank(name) {
		ve.AddRequiredError("task_name")
		return ve
	}

	if !tv.validator.HasNameLength(name) {
		limits := tv.validator.Limits()
		ve.AddInvalidLengthError("task_name", name, limits.MinNameLength, limits.MaxNameLength)
	}
	if !tv.validator.IsPrintable(name) {
		ve.AddInvalidCharacterError("task_name", name)
	}
	return ve
}

// ValidateTaskForCreation reports every problem with a record in one error.
// The description and comments are free text and never rejected.
func (tv *TaskValidator) ValidateTaskForCreation(task domain.Task) error {
	ve := tv.checkName(task.TaskName)
	ve.Merge(tv.checkApprovers(task))

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func (tv *TaskValidator) checkApprovers(task domain.Task) *ValidationError {
	ve := NewValidationError()
	for i, approver := range []string{task.Approver1, task.Approver2, task.Approver3} {
		if tv.validator.IsBlank(approver) {
			ve.AddRequiredError(fmt.Sprintf("approver%d", i+1))
		}
	}
	return ve
}
