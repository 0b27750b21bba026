// Package filestore keeps each task as one JSON document inside a
// per-database directory.
package filestore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
)

const (
	documentExt     = ".json"
	decodeOperation = "decode task"
)

// isDecodeFailure reports whether readDocument failed on content rather
// than on I/O.
func isDecodeFailure(err error) bool {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return false
	}
	operation, _ := appErr.GetContext("operation")
	return operation == decodeOperation
}

// Options configures a Store.
type Options struct {
	// Root is the directory holding one subdirectory per logical database.
	Root string
	// Database names the subdirectory used by this store.
	Database string
	// DirPermissions applies to directories created on first write.
	DirPermissions os.FileMode
	// FilePermissions applies to task documents.
	FilePermissions os.FileMode
	// Logger reports documents that ListTasks skips. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store implements repository.Repository on a directory of JSON documents.
// Nothing is cached; every call goes back to disk.
type Store struct {
	dir      string
	dirPerm  os.FileMode
	filePerm os.FileMode
	logger   *slog.Logger
}

// New creates a Store. Directories are not touched until the first write.
func New(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, errors.NewInvalidInputError("root", opts.Root, "storage root cannot be empty")
	}
	if strings.TrimSpace(opts.Database) == "" {
		return nil, errors.NewInvalidInputError("database", opts.Database, "database name cannot be empty")
	}
	if opts.DirPermissions == 0 {
		opts.DirPermissions = 0o755
	}
	if opts.FilePermissions == 0 {
		opts.FilePermissions = 0o644
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		dir:      filepath.Join(opts.Root, EscapeName(opts.Database)),
		dirPerm:  opts.DirPermissions,
		filePerm: opts.FilePermissions,
		logger:   opts.Logger,
	}, nil
}

// Dir returns the directory holding this store's documents.
func (s *Store) Dir() string {
	return s.dir
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

// Ping checks that the database directory, or its nearest existing parent,
// is a directory. A store that was never written to is healthy.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewStorageError("ping", err)
	}
	for dir := s.dir; ; dir = filepath.Dir(dir) {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return errors.NewStorageError("ping", stderrors.New("not a directory")).WithContext("path", dir)
			}
			return nil
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return errors.NewStorageError("ping", err).WithContext("path", dir)
		}
		if parent := filepath.Dir(dir); parent == dir {
			return nil
		}
	}
}

func (s *Store) pathFor(taskName string) string {
	return filepath.Join(s.dir, EscapeName(taskName)+documentExt)
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, s.dirPerm); err != nil {
		return errors.NewStorageError("create database directory", err).WithContext("path", s.dir)
	}
	return nil
}

// CreateTask writes a new document, failing with a conflict if one exists.
func (s *Store) CreateTask(ctx context.Context, task domain.Task) error {
	if err := ctx.Err(); err != nil {
		return errors.NewStorageError("create task", err)
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := encodeDocument(task)
	if err != nil {
		return errors.NewStorageError("encode task", err)
	}

	path := s.pathFor(task.TaskName)
	if err := createFileExclusiveDurable(path, data, s.filePerm); err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			return errors.NewConflictError("task", task.TaskName)
		}
		return errors.NewStorageError("create task", err).WithContext("path", path)
	}
	return nil
}

// GetTask reads and decodes a single document.
func (s *Store) GetTask(ctx context.Context, taskName string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStorageError("read task", err)
	}
	return s.readDocument(s.pathFor(taskName), taskName)
}

// ListTasks decodes every document in the database directory.
// A directory that was never written to is an empty store.
func (s *Store) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []*domain.Task{}, nil
		}
		return nil, errors.NewStorageError("list tasks", err).WithContext("path", s.dir)
	}

	tasks := make([]*domain.Task, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewStorageError("list tasks", err)
		}
		name := entry.Name()
		if entry.IsDir() || isTempFile(name) || !strings.HasSuffix(name, documentExt) {
			continue
		}
		path := filepath.Join(s.dir, name)
		task, err := s.readDocument(path, strings.TrimSuffix(name, documentExt))
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			if !isDecodeFailure(err) {
				return nil, err
			}
			s.logger.WarnContext(ctx, "skipping undecodable document", "path", path, "error", err)
			continue
		}
		if EscapeName(task.TaskName)+documentExt != name {
			s.logger.WarnContext(ctx, "skipping document stored under a foreign name",
				"path", path, "task", task.TaskName)
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].TaskName < tasks[j].TaskName
	})
	return tasks, nil
}

// AppendComment rewrites the document with one more comment.
func (s *Store) AppendComment(ctx context.Context, taskName string, comment domain.Comment) error {
	return s.update(ctx, "append comment", taskName, func(t *domain.Task) {
		t.AppendComment(comment)
	})
}

// SetRecommendation rewrites the document with both fields set.
func (s *Store) SetRecommendation(ctx context.Context, taskName, recommendation, decisionMaker string) error {
	return s.update(ctx, "set recommendation", taskName, func(t *domain.Task) {
		t.SetRecommendation(recommendation, decisionMaker)
	})
}

// ClearComments rewrites the document with an empty comment sequence.
func (s *Store) ClearComments(ctx context.Context, taskName string) error {
	return s.update(ctx, "clear comments", taskName, func(t *domain.Task) {
		t.ClearComments()
	})
}

// update is a read-modify-write of one document. Concurrent updates to the
// same task are last-writer-wins; the document itself is always whole.
func (s *Store) update(ctx context.Context, operation, taskName string, mutate func(*domain.Task)) error {
	if err := ctx.Err(); err != nil {
		return errors.NewStorageError(operation, err)
	}

	path := s.pathFor(taskName)
	task, err := s.readDocument(path, taskName)
	if err != nil {
		return err
	}

	mutate(task)

	data, err := encodeDocument(*task)
	if err != nil {
		return errors.NewStorageError("encode task", err)
	}
	if err := writeFileAtomicDurable(path, data, s.filePerm); err != nil {
		return errors.NewStorageError(operation, err).WithContext("path", path)
	}
	return nil
}

func (s *Store) readDocument(path, taskName string) (*domain.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("task", taskName)
		}
		return nil, errors.NewStorageError("read task", err).WithContext("path", path)
	}

	task, err := decodeDocument(data)
	if err != nil {
		return nil, errors.NewStorageError(decodeOperation, err).WithContext("path", path)
	}
	return task, nil
}

func encodeDocument(task domain.Task) ([]byte, error) {
	data, err := json.MarshalIndent(task.Normalized(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decodeDocument(data []byte) (*domain.Task, error) {
	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, err
	}
	normalized := task.Normalized()
	return &normalized, nil
}
