package services

import (
	"context"
	"time"

	"task-approvals/internal/domain"
	"task-approvals/internal/telemetry"
)

// instrumentedTaskService records an operation count and latency for every call.
type instrumentedTaskService struct {
	next    TaskService
	metrics *telemetry.StoreMetrics
}

// NewInstrumentedTaskService wraps next so every backend is measured the same way.
// A nil metrics returns next unchanged.
func NewInstrumentedTaskService(next TaskService, metrics *telemetry.StoreMetrics) TaskService {
	if metrics == nil {
		return next
	}
	return &instrumentedTaskService{next: next, metrics: metrics}
}

func (s *instrumentedTaskService) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	start := time.Now()
	created, err := s.next.CreateTask(ctx, task)
	s.metrics.Record(ctx, "create_task", err, time.Since(start))
	return created, err
}

func (s *instrumentedTaskService) GetTask(ctx context.Context, taskName, reader string) (*domain.Task, error) {
	start := time.Now()
	task, err := s.next.GetTask(ctx, taskName, reader)
	s.metrics.Record(ctx, "get_task", err, time.Since(start))
	return task, err
}

func (s *instrumentedTaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	start := time.Now()
	tasks, err := s.next.ListTasks(ctx)
	s.metrics.Record(ctx, "list_tasks", err, time.Since(start))
	return tasks, err
}

func (s *instrumentedTaskService) AddComment(ctx context.Context, taskName, text, author string) error {
	start := time.Now()
	err := s.next.AddComment(ctx, taskName, text, author)
	s.metrics.Record(ctx, "add_comment", err, time.Since(start))
	return err
}

func (s *instrumentedTaskService) SetRecommendation(ctx context.Context, taskName, text, author string) error {
	start := time.Now()
	err := s.next.SetRecommendation(ctx, taskName, text, author)
	s.metrics.Record(ctx, "set_recommendation", err, time.Since(start))
	return err
}

func (s *instrumentedTaskService) ClearComments(ctx context.Context, taskName, author string) error {
	start := time.Now()
	err := s.next.ClearComments(ctx, taskName, author)
	s.metrics.Record(ctx, "clear_comments", err, time.Since(start))
	return err
}
