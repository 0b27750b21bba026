// Package repotest holds the behavioural suite every repository backend must pass.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
	"task-approvals/internal/repository"
)

// Factory returns a fresh, empty repository. Cleanup is registered on t.
type Factory func(t *testing.T) repository.Repository

// SampleTask builds a task with approvers A, B and C.
func SampleTask(name string) domain.Task {
	return domain.NewTask(name, "description of "+name, "A", "B", "C")
}

var commentTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// Run executes the contract suite against the backend produced by newRepo.
func Run(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("should create and read back a task", func(t *testing.T) {
		repo := newRepo(t)
		task := SampleTask("T1")
		task.AppendComment(domain.NewComment("first", "A", commentTime))
		task.AppendComment(domain.NewComment("second", "B", commentTime.Add(time.Second)))

		require.NoError(t, repo.CreateTask(ctx, task))

		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, "T1", got.TaskName)
		assert.Equal(t, []string{"A", "B", "C"}, got.Approvers())
		assert.Equal(t, "description of T1", got.TaskDescription)
		assert.Equal(t, []string{"first:--:A", "second:--:B"}, domain.PackComments(got.Comments))
		assert.True(t, commentTime.Equal(got.Comments[0].CreatedAt))
		assert.Empty(t, got.Recommendation)
		assert.Empty(t, got.DecisionMaker)
	})

	t.Run("should return a task with zero comments", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateTask(ctx, SampleTask("T1")))

		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.NotNil(t, got.Comments)
		assert.Empty(t, got.Comments)
	})

	t.Run("should reject duplicate create and keep the first record", func(t *testing.T) {
		repo := newRepo(t)
		first := SampleTask("T1")
		first.AppendComment(domain.NewComment("keep me", "A", commentTime))
		require.NoError(t, repo.CreateTask(ctx, first))

		second := domain.NewTask("T1", "other", "X", "Y", "Z")
		err := repo.CreateTask(ctx, second)
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err), "expected conflict, got %v", err)
		assert.Contains(t, err.Error(), "T1")

		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, "description of T1", got.TaskDescription)
		assert.Equal(t, "A", got.Approver1)
		assert.Equal(t, []string{"keep me:--:A"}, domain.PackComments(got.Comments))
	})

	t.Run("should report missing tasks as not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetTask(ctx, "missing")
		assert.True(t, errors.IsNotFound(err), "get: %v", err)

		err = repo.AppendComment(ctx, "missing", domain.NewComment("x", "A", commentTime))
		assert.True(t, errors.IsNotFound(err), "append: %v", err)

		err = repo.SetRecommendation(ctx, "missing", "approve", "A")
		assert.True(t, errors.IsNotFound(err), "recommend: %v", err)

		err = repo.ClearComments(ctx, "missing")
		assert.True(t, errors.IsNotFound(err), "clear: %v", err)
	})

	t.Run("should list nothing from an empty store", func(t *testing.T) {
		repo := newRepo(t)

		tasks, err := repo.ListTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("should list tasks sorted by name without mixing comments", func(t *testing.T) {
		repo := newRepo(t)
		for _, name := range []string{"T2", "T1", "T3"} {
			require.NoError(t, repo.CreateTask(ctx, SampleTask(name)))
		}
		require.NoError(t, repo.AppendComment(ctx, "T1", domain.NewComment("c1", "A", commentTime)))
		require.NoError(t, repo.AppendComment(ctx, "T2", domain.NewComment("c2", "B", commentTime)))
		require.NoError(t, repo.AppendComment(ctx, "T1", domain.NewComment("c3", "C", commentTime)))

		tasks, err := repo.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)

		assert.Equal(t, "T1", tasks[0].TaskName)
		assert.Equal(t, "T2", tasks[1].TaskName)
		assert.Equal(t, "T3", tasks[2].TaskName)
		assert.Equal(t, []string{"c1:--:A", "c3:--:C"}, domain.PackComments(tasks[0].Comments))
		assert.Equal(t, []string{"c2:--:B"}, domain.PackComments(tasks[1].Comments))
		assert.Empty(t, tasks[2].Comments)
	})

	t.Run("should append comments in order", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateTask(ctx, SampleTask("T1")))

		var want []string
		for i, author := range []string{"A", "B", "C", "A", "B"} {
			text := string(rune('a' + i))
			require.NoError(t, repo.AppendComment(ctx, "T1", domain.NewComment(text, author, commentTime)))
			want = append(want, text+":--:"+author)
		}

		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, want, domain.PackComments(got.Comments))
	})

	t.Run("should set recommendation and decision maker together", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateTask(ctx, SampleTask("T1")))

		require.NoError(t, repo.SetRecommendation(ctx, "T1", "approve", "A"))
		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, "approve", got.Recommendation)
		assert.Equal(t, "A", got.DecisionMaker)

		require.NoError(t, repo.SetRecommendation(ctx, "T1", "reject", "C"))
		got, err = repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, "reject", got.Recommendation)
		assert.Equal(t, "C", got.DecisionMaker)
	})

	t.Run("should clear comments idempotently", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateTask(ctx, SampleTask("T1")))
		require.NoError(t, repo.AppendComment(ctx, "T1", domain.NewComment("x", "A", commentTime)))
		require.NoError(t, repo.SetRecommendation(ctx, "T1", "approve", "B"))

		require.NoError(t, repo.ClearComments(ctx, "T1"))
		require.NoError(t, repo.ClearComments(ctx, "T1"))

		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Empty(t, got.Comments)
		assert.Equal(t, "approve", got.Recommendation)

		require.NoError(t, repo.AppendComment(ctx, "T1", domain.NewComment("after", "C", commentTime)))
		got, err = repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, []string{"after:--:C"}, domain.PackComments(got.Comments))
	})

	t.Run("should keep awkward names distinct", func(t *testing.T) {
		repo := newRepo(t)
		names := []string{"a/b", "a%2Fb", "..", ".hidden", "a b", "ümlaut", "x:--:y"}
		for _, name := range names {
			require.NoError(t, repo.CreateTask(ctx, SampleTask(name)), name)
		}

		for _, name := range names {
			got, err := repo.GetTask(ctx, name)
			require.NoError(t, err, name)
			assert.Equal(t, name, got.TaskName)
		}

		tasks, err := repo.ListTasks(ctx)
		require.NoError(t, err)
		assert.Len(t, tasks, len(names))
	})

	t.Run("should keep delimiter text inside comments", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateTask(ctx, SampleTask("T1")))
		require.NoError(t, repo.AppendComment(ctx, "T1", domain.NewComment("a:--:b", "A", commentTime)))

		got, err := repo.GetTask(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "a:--:b", got.Comments[0].Text)
		assert.Equal(t, "A", got.Comments[0].Author)
	})
}
