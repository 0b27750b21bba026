// Package relational stores tasks in a tasks table and their comments in a
// comments table, on SQLite or PostgreSQL.
package relational

import (
	"context"
	"database/sql"
	"time"

	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
	"task-approvals/internal/repository/relational/schema"
)

const selectTasks = `
	SELECT t.task_name, t.approver1, t.approver2, t.approver3, t.task_description,
	       t.recommendation, t.decision_maker,
	       c.id, c.body, c.author, c.created_at
	FROM tasks t
	LEFT JOIN comments c ON c.task_name = t.task_name`

// Repository implements repository.Repository over database/sql.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	onClose func()
}

// New wraps an open database, bootstrapping the schema for dialect.
// onClose, if set, runs after the database is closed.
func New(ctx context.Context, db *sql.DB, dialect Dialect, onClose func()) (*Repository, error) {
	if err := schema.Apply(ctx, db, dialect.Name()); err != nil {
		return nil, storageError("apply schema", err)
	}
	return &Repository{db: db, dialect: dialect, onClose: onClose}, nil
}

// Dialect returns the SQL dialect in use.
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// Close closes the database connection
func (r *Repository) Close() error {
	err := r.db.Close()
	if r.onClose != nil {
		r.onClose()
	}
	return err
}

func (r *Repository) q(query string) string {
	return r.dialect.Rebind(query)
}

// CreateTask inserts the task row and its initial comments in one transaction.
func (r *Repository) CreateTask(ctx context.Context, task domain.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.q(`
	INSERT INTO tasks (task_name, approver1, approver2, approver3, task_description, recommendation, decision_maker)
	VALUES (?, ?, ?, ?, ?, '', '')`),
		task.TaskName, task.Approver1, task.Approver2, task.Approver3, task.TaskDescription)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return errors.NewConflictError("task", task.TaskName)
		}
		return storageError("insert task", err)
	}

	for _, c := range task.Comments {
		if err := r.insertComment(ctx, tx, task.TaskName, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit task", err)
	}
	return nil
}

func (r *Repository) insertComment(ctx context.Context, db execer, taskName string, c domain.Comment) error {
	_, err := db.ExecContext(ctx, r.q(`
	INSERT INTO comments (task_name, body, author, created_at)
	VALUES (?, ?, ?, ?)`),
		taskName, c.Text, c.Author, FormatTimeForDB(c.CreatedAt))
	if err != nil {
		return storageError("insert comment", err)
	}
	return nil
}

// GetTask retrieves one task with its comments in insertion order.
func (r *Repository) GetTask(ctx context.Context, taskName string) (*domain.Task, error) {
	query := r.q(selectTasks + `
	WHERE t.task_name = ?
	ORDER BY c.id ASC`)

	rows, err := queryTaskRows(ctx, r.db, "read task", query, taskName)
	if err != nil {
		return nil, err
	}

	tasks, err := FoldTaskRows(rows)
	if err != nil {
		return nil, storageError("decode task", err)
	}
	if len(tasks) == 0 {
		return nil, errors.NewNotFoundError("task", taskName)
	}
	return tasks[0], nil
}

// ListTasks retrieves every task sorted by name.
func (r *Repository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	query := r.q(selectTasks + `
	ORDER BY t.task_name ASC, c.id ASC`)

	rows, err := queryTaskRows(ctx, r.db, "list tasks", query)
	if err != nil {
		return nil, err
	}

	tasks, err := FoldTaskRows(rows)
	if err != nil {
		return nil, storageError("decode tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// AppendComment inserts one comment row, guarded by the task's existence.
func (r *Repository) AppendComment(ctx context.Context, taskName string, comment domain.Comment) error {
	query := r.q(`
	INSERT INTO comments (task_name, body, author, created_at)
	SELECT CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT)
	WHERE EXISTS (SELECT 1 FROM tasks WHERE task_name = ?)`)

	return execOnTask(ctx, r.db, query, taskName,
		taskName, comment.Text, comment.Author, FormatTimeForDB(comment.CreatedAt), taskName)
}

// SetRecommendation updates both columns in a single statement.
func (r *Repository) SetRecommendation(ctx context.Context, taskName, recommendation, decisionMaker string) error {
	query := r.q(`
	UPDATE tasks
	SET recommendation = ?, decision_maker = ?
	WHERE task_name = ?`)

	return execOnTask(ctx, r.db, query, taskName, recommendation, decisionMaker, taskName)
}

// ClearComments deletes every comment row for the task.
func (r *Repository) ClearComments(ctx context.Context, taskName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	exists, err := taskExists(ctx, tx, r.q(`SELECT 1 FROM tasks WHERE task_name = ?`), taskName)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewNotFoundError("task", taskName)
	}

	if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM comments WHERE task_name = ?`), taskName); err != nil {
		return storageError("delete comments", err)
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit clear comments", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}
