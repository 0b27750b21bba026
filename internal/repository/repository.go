// Package repository defines the persistence contract shared by every task
// storage backend.
package repository

import (
	"context"

	"task-approvals/internal/domain"
)

// Repository defines the primitive storage operations for task records.
//
// Implementations translate their own failures into the application error
// taxonomy: a duplicate key is a Conflict, a missing record is NotFound and
// anything else is a Storage error. Authorization is not a storage concern
// and is left to the caller.
type Repository interface {
	// CreateTask inserts a new record with its initial comments.
	// It never overwrites an existing record.
	CreateTask(ctx context.Context, task domain.Task) error

	// GetTask returns the full record with comments in insertion order.
	GetTask(ctx context.Context, taskName string) (*domain.Task, error)

	// ListTasks returns every record sorted by task name.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// AppendComment adds a comment at the end of the task's sequence.
	AppendComment(ctx context.Context, taskName string, comment domain.Comment) error

	// SetRecommendation writes recommendation and decision maker together.
	SetRecommendation(ctx context.Context, taskName, recommendation, decisionMaker string) error

	// ClearComments removes every comment from the task.
	ClearComments(ctx context.Context, taskName string) error

	// Close releases any resources held by the backend.
	Close() error
}
