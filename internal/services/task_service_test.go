package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-approvals/internal/config"
	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
	"task-approvals/internal/repository"
	"task-approvals/internal/repository/filestore"
	"task-approvals/internal/repository/relational"
)

var fixedNow = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

func newFileRepository(t *testing.T) repository.Repository {
	repo, err := filestore.New(filestore.Options{Root: t.TempDir(), Database: "approvals"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newSQLiteRepository(t *testing.T) repository.Repository {
	repo, err := relational.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "approvals.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

var backends = map[string]func(t *testing.T) repository.Repository{
	"file":   newFileRepository,
	"sqlite": newSQLiteRepository,
}

func setupTaskService(t *testing.T, newRepo func(t *testing.T) repository.Repository, opts ...Option) TaskService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewTaskService(newRepo(t), opts...)
}

func setupTaskServiceWithData(t *testing.T, newRepo func(t *testing.T) repository.Repository, opts ...Option) TaskService {
	service := setupTaskService(t, newRepo, opts...)
	_, err := service.CreateTask(context.Background(), domain.NewTask("T1", "quarterly budget", "A", "B", "C"))
	require.NoError(t, err)
	return service
}

func forEachBackend(t *testing.T, fn func(t *testing.T, newRepo func(t *testing.T) repository.Repository)) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, newRepo)
		})
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name    string
		task    domain.Task
		outcome errors.Outcome
	}{
		{
			name:    "should create task with valid fields",
			task:    domain.NewTask("T1", "desc", "A", "B", "C"),
			outcome: errors.OutcomeOK,
		},
		{
			name:    "should return validation error for empty name",
			task:    domain.NewTask("", "desc", "A", "B", "C"),
			outcome: errors.OutcomeInvalid,
		},
		{
			name:    "should return validation error for very long name",
			task:    domain.NewTask(strings.Repeat("n", 256), "desc", "A", "B", "C"),
			outcome: errors.OutcomeInvalid,
		},
		{
			name:    "should return validation error for missing approver",
			task:    domain.NewTask("T1", "desc", "A", "B", ""),
			outcome: errors.OutcomeInvalid,
		},
	}

	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := setupTaskService(t, newRepo)

				result, err := service.CreateTask(context.Background(), tt.task)

				assert.Equal(t, tt.outcome, errors.OutcomeOf(err))
				if tt.outcome != errors.OutcomeOK {
					assert.Nil(t, result)
					return
				}
				require.NotNil(t, result)
				assert.Equal(t, tt.task.TaskName, result.TaskName)
			})
		}
	})
}

func TestTaskService_CreateTaskKeepsInitialCommentsAndDropsRecommendation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		service := setupTaskService(t, newRepo)
		ctx := context.Background()

		task := domain.NewTask("T1", "desc", "A", "B", "C")
		task.Comments = []domain.Comment{{Text: "first", Author: "A"}, {Text: "second", Author: "B"}}
		task.SetRecommendation("approve", "A")

		created, err := service.CreateTask(ctx, task)
		require.NoError(t, err)
		assert.Empty(t, created.Recommendation)

		got, err := service.GetTask(ctx, "T1", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"first:--:A", "second:--:B"}, domain.PackComments(got.Comments))
		assert.True(t, fixedNow.Equal(got.Comments[0].CreatedAt))
		assert.Empty(t, got.Recommendation)
		assert.Empty(t, got.DecisionMaker)
	})
}

func TestTaskService_DuplicateCreateIsConflict(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		service := setupTaskServiceWithData(t, newRepo)
		ctx := context.Background()

		_, err := service.CreateTask(ctx, domain.NewTask("T1", "replacement", "X", "Y", "Z"))
		assert.Equal(t, errors.OutcomeConflict, errors.OutcomeOf(err))

		got, err := service.GetTask(ctx, "T1", "")
		require.NoError(t, err)
		assert.Equal(t, "quarterly budget", got.TaskDescription)
		assert.Equal(t, "A", got.Approver1)
	})
}

func TestTaskService_AddComment(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		author   string
		outcome  errors.Outcome
		comments []string
	}{
		{
			name:     "should append comment from approver",
			taskName: "T1",
			author:   "A",
			outcome:  errors.OutcomeOK,
			comments: []string{"ok:--:A"},
		},
		{
			name:     "should reject non-approver",
			taskName: "T1",
			author:   "Z",
			outcome:  errors.OutcomeUnauthorized,
			comments: []string{},
		},
		{
			name:     "should compare approvers case-sensitively",
			taskName: "T1",
			author:   "a",
			outcome:  errors.OutcomeUnauthorized,
			comments: []string{},
		},
		{
			name:     "should reject empty author",
			taskName: "T1",
			author:   "",
			outcome:  errors.OutcomeUnauthorized,
			comments: []string{},
		},
		{
			name:     "should report missing task before authorization",
			taskName: "T9",
			author:   "Z",
			outcome:  errors.OutcomeNotFound,
		},
	}

	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := setupTaskServiceWithData(t, newRepo)
				ctx := context.Background()

				err := service.AddComment(ctx, tt.taskName, "ok", tt.author)
				assert.Equal(t, tt.outcome, errors.OutcomeOf(err), "err: %v", err)

				if tt.comments == nil {
					return
				}
				got, err := service.GetTask(ctx, tt.taskName, "")
				require.NoError(t, err)
				assert.Equal(t, tt.comments, domain.PackComments(got.Comments))
			})
		}
	})
}

func TestTaskService_SetRecommendation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		service := setupTaskServiceWithData(t, newRepo)
		ctx := context.Background()

		require.NoError(t, service.SetRecommendation(ctx, "T1", "approve", "B"))
		got, err := service.GetTask(ctx, "T1", "")
		require.NoError(t, err)
		assert.Equal(t, "approve", got.Recommendation)
		assert.Equal(t, "B", got.DecisionMaker)

		err = service.SetRecommendation(ctx, "T1", "reject", "Z")
		assert.Equal(t, errors.OutcomeUnauthorized, errors.OutcomeOf(err))

		got, err = service.GetTask(ctx, "T1", "")
		require.NoError(t, err)
		assert.Equal(t, "approve", got.Recommendation)
		assert.Equal(t, "B", got.DecisionMaker)

		err = service.SetRecommendation(ctx, "T9", "approve", "Z")
		assert.Equal(t, errors.OutcomeNotFound, errors.OutcomeOf(err))
	})
}

func TestTaskService_ClearComments(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		service := setupTaskServiceWithData(t, newRepo)
		ctx := context.Background()

		require.NoError(t, service.AddComment(ctx, "T1", "one", "A"))
		require.NoError(t, service.AddComment(ctx, "T1", "two", "B"))

		err := service.ClearComments(ctx, "T1", "Z")
		assert.Equal(t, errors.OutcomeUnauthorized, errors.OutcomeOf(err))

		require.NoError(t, service.ClearComments(ctx, "T1", "C"))
		require.NoError(t, service.ClearComments(ctx, "T1", "C"))

		got, err := service.GetTask(ctx, "T1", "")
		require.NoError(t, err)
		assert.Empty(t, got.Comments)

		err = service.ClearComments(ctx, "T9", "Z")
		assert.Equal(t, errors.OutcomeNotFound, errors.OutcomeOf(err))
	})
}

func TestTaskService_GetTask(t *testing.T) {
	tests := []struct {
		name          string
		restrictReads bool
		taskName      string
		reader        string
		outcome       errors.Outcome
	}{
		{name: "should allow any reader by default", taskName: "T1", reader: "Z", outcome: errors.OutcomeOK},
		{name: "should allow anonymous reader by default", taskName: "T1", reader: "", outcome: errors.OutcomeOK},
		{name: "should report missing task", taskName: "T9", reader: "A", outcome: errors.OutcomeNotFound},
		{name: "should allow approver when restricted", restrictReads: true, taskName: "T1", reader: "C", outcome: errors.OutcomeOK},
		{name: "should reject non-approver when restricted", restrictReads: true, taskName: "T1", reader: "Z", outcome: errors.OutcomeUnauthorized},
		{name: "should report missing task before restriction", restrictReads: true, taskName: "T9", reader: "Z", outcome: errors.OutcomeNotFound},
	}

	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := setupTaskServiceWithData(t, newRepo, WithRestrictedReads(tt.restrictReads))

				got, err := service.GetTask(context.Background(), tt.taskName, tt.reader)
				assert.Equal(t, tt.outcome, errors.OutcomeOf(err))
				if tt.outcome == errors.OutcomeOK {
					require.NotNil(t, got)
					assert.Equal(t, tt.taskName, got.TaskName)
				}
			})
		}
	})
}

func TestTaskService_ListTasks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
		service := setupTaskService(t, newRepo)
		ctx := context.Background()

		tasks, err := service.ListTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		for _, name := range []string{"beta", "alpha"} {
			_, err := service.CreateTask(ctx, domain.NewTask(name, "", "A", "B", "C"))
			require.NoError(t, err)
		}
		require.NoError(t, service.AddComment(ctx, "beta", "only beta", "A"))

		tasks, err = service.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "alpha", tasks[0].TaskName)
		assert.Empty(t, tasks[0].Comments)
		assert.Equal(t, []string{"only beta:--:A"}, domain.PackComments(tasks[1].Comments))
	})
}

func TestTaskService_WithConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TaskNameMaxLength = 5
	cfg.Access.RestrictReads = true

	service := setupTaskService(t, newFileRepository, WithConfig(cfg))
	ctx := context.Background()

	_, err := service.CreateTask(ctx, domain.NewTask("toolong", "", "A", "B", "C"))
	assert.Equal(t, errors.OutcomeInvalid, errors.OutcomeOf(err))

	_, err = service.CreateTask(ctx, domain.NewTask("short", "", "A", "B", "C"))
	require.NoError(t, err)

	_, err = service.GetTask(ctx, "short", "Z")
	assert.Equal(t, errors.OutcomeUnauthorized, errors.OutcomeOf(err))
}

// brokenRepository fails every call with an error outside the taxonomy.
type brokenRepository struct{}

var errDiskOnFire = stderrors.New("disk on fire")

func (brokenRepository) CreateTask(context.Context, domain.Task) error { return errDiskOnFire }
func (brokenRepository) GetTask(context.Context, string) (*domain.Task, error) {
	return nil, errDiskOnFire
}
func (brokenRepository) ListTasks(context.Context) ([]*domain.Task, error) {
	return nil, errDiskOnFire
}
func (brokenRepository) AppendComment(context.Context, string, domain.Comment) error {
	return errDiskOnFire
}
func (brokenRepository) SetRecommendation(context.Context, string, string, string) error {
	return errDiskOnFire
}
func (brokenRepository) ClearComments(context.Context, string) error { return errDiskOnFire }
func (brokenRepository) Close() error                                { return nil }

func TestTaskService_StorageFailuresAreTranslatedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	service := NewTaskService(brokenRepository{}, WithLogger(logger))
	ctx := context.Background()

	_, err := service.CreateTask(ctx, domain.NewTask("T1", "", "A", "B", "C"))
	assert.Equal(t, errors.OutcomeStorageFailure, errors.OutcomeOf(err))
	assert.ErrorIs(t, err, errDiskOnFire)

	_, err = service.ListTasks(ctx)
	assert.Equal(t, errors.OutcomeStorageFailure, errors.OutcomeOf(err))

	err = service.AddComment(ctx, "T1", "x", "A")
	assert.Equal(t, errors.OutcomeStorageFailure, errors.OutcomeOf(err))

	assert.Contains(t, buf.String(), "task store operation failed")
	assert.Contains(t, buf.String(), "operation=\"create task\"")
}

func TestTaskService_UserErrorsAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	service := setupTaskServiceWithData(t, newFileRepository, WithLogger(logger))

	_ = service.AddComment(context.Background(), "T9", "x", "A")
	_ = service.AddComment(context.Background(), "T1", "x", "Z")

	assert.Empty(t, buf.String())
}
