package services

import (
	"context"
	"log/slog"
	"time"

	"task-approvals/internal/config"
	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
	"task-approvals/internal/repository"
	"task-approvals/internal/validation"
)

// Option customises a task service.
type Option func(*taskServiceImpl)

// WithLogger sets the logger used for storage failures and debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *taskServiceImpl) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock replaces time.Now for comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *taskServiceImpl) {
		if now != nil {
			t.now = now
		}
	}
}

// WithRestrictedReads limits GetTask to the task's approvers.
func WithRestrictedReads(restrict bool) Option {
	return func(t *taskServiceImpl) {
		t.restrictReads = restrict
	}
}

// WithConfig applies validation limits and access rules from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(t *taskServiceImpl) {
		if cfg == nil {
			return
		}
		t.taskValidator = validation.NewTaskValidatorWithConfig(cfg)
		t.restrictReads = cfg.Access.RestrictReads
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	taskValidator *validation.TaskValidator
	logger        *slog.Logger
	now           func() time.Time
	restrictReads bool
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo repository.Repository, opts ...Option) TaskService {
	t := &taskServiceImpl{
		repo:          repo,
		taskValidator: validation.NewTaskValidator(),
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateTask creates a new task record
func (t *taskServiceImpl) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskForCreation(task); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	record := domain.NewTask(task.TaskName, task.TaskDescription, task.Approver1, task.Approver2, task.Approver3)
	now := t.now()
	for _, c := range task.Comments {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		record.AppendComment(c)
	}

	if err := t.repo.CreateTask(ctx, record); err != nil {
		return nil, t.fail(ctx, "create task", task.TaskName, err)
	}

	t.logger.DebugContext(ctx, "task created", "task", record.TaskName, "comments", len(record.Comments))
	return &record, nil
}

// GetTask retrieves a task by name
func (t *taskServiceImpl) GetTask(ctx context.Context, taskName, reader string) (*domain.Task, error) {
	task, err := t.repo.GetTask(ctx, taskName)
	if err != nil {
		return nil, t.fail(ctx, "get task", taskName, err)
	}

	if t.restrictReads && !task.IsApprover(reader) {
		return nil, errors.NewUnauthorizedError(reader, "read", taskName)
	}

	return task, nil
}

// ListTasks retrieves all tasks
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := t.repo.ListTasks(ctx)
	if err != nil {
		return nil, t.fail(ctx, "list tasks", "", err)
	}
	return tasks, nil
}

// AddComment appends a comment written by one of the approvers
func (t *taskServiceImpl) AddComment(ctx context.Context, taskName, text, author string) error {
	if err := t.authorize(ctx, "add comment", taskName, author); err != nil {
		return err
	}

	comment := domain.NewComment(text, author, t.now())
	if err := t.repo.AppendComment(ctx, taskName, comment); err != nil {
		return t.fail(ctx, "add comment", taskName, err)
	}

	t.logger.DebugContext(ctx, "comment added", "task", taskName, "author", author)
	return nil
}

// SetRecommendation records the decision of one of the approvers
func (t *taskServiceImpl) SetRecommendation(ctx context.Context, taskName, text, author string) error {
	if err := t.authorize(ctx, "set recommendation", taskName, author); err != nil {
		return err
	}

	if err := t.repo.SetRecommendation(ctx, taskName, text, author); err != nil {
		return t.fail(ctx, "set recommendation", taskName, err)
	}

	t.logger.DebugContext(ctx, "recommendation set", "task", taskName, "decision_maker", author)
	return nil
}

// ClearComments removes all comments on behalf of one of the approvers
func (t *taskServiceImpl) ClearComments(ctx context.Context, taskName, author string) error {
	if err := t.authorize(ctx, "clear comments", taskName, author); err != nil {
		return err
	}

	if err := t.repo.ClearComments(ctx, taskName); err != nil {
		return t.fail(ctx, "clear comments", taskName, err)
	}

	t.logger.DebugContext(ctx, "comments cleared", "task", taskName, "author", author)
	return nil
}

// authorize loads the task and checks user against its approvers.
// A missing task is reported before an unauthorized user.
func (t *taskServiceImpl) authorize(ctx context.Context, operation, taskName, user string) error {
	task, err := t.repo.GetTask(ctx, taskName)
	if err != nil {
		return t.fail(ctx, operation, taskName, err)
	}
	if !task.IsApprover(user) {
		return errors.NewUnauthorizedError(user, operation, taskName)
	}
	return nil
}

// fail makes sure err belongs to the error taxonomy and logs storage failures.
func (t *taskServiceImpl) fail(ctx context.Context, operation, taskName string, err error) error {
	if !errors.IsAppError(err) {
		err = errors.NewStorageError(operation, err)
	}
	if errors.ShouldLogError(err) {
		t.logger.ErrorContext(ctx, "task store operation failed",
			"operation", operation,
			"task", taskName,
			"error", err,
		)
	}
	return err
}
