package services

import (
	"context"

	"task-approvals/internal/domain"
)

// TaskService is the task store contract every caller goes through.
//
// Every error it returns is an *errors.AppError whose type is one of
// NotFound, Conflict, Unauthorized, Storage or Validation; errors.OutcomeOf
// turns it into the operation's outcome tag. Mutations check existence
// first, then authorization, then write.
type TaskService interface {
	// CreateTask stores a new record. Initial comments are kept in order;
	// recommendation and decision maker always start empty.
	CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error)

	// GetTask returns the full record. reader is only checked when reads
	// are restricted to approvers.
	GetTask(ctx context.Context, taskName, reader string) (*domain.Task, error)

	// ListTasks returns every record sorted by task name.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// AddComment appends a comment by author, who must be an approver.
	AddComment(ctx context.Context, taskName, text, author string) error

	// SetRecommendation records text and author as the decision together.
	SetRecommendation(ctx context.Context, taskName, text, author string) error

	// ClearComments empties the comment sequence. Clearing twice is not an error.
	ClearComments(ctx context.Context, taskName, author string) error
}
