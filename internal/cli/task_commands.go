package cli

import (
	"context"
	"fmt"

	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
)

// Command is implemented by every task subcommand handler.
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// ListCommand handles the task list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints every task sorted by name.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	tasks, err := c.app.service.ListTasks(ctx)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}

	if len(tasks) == 0 {
		c.app.println("No tasks found")
		return nil
	}

	c.app.println(renderTaskHeader())
	for _, task := range tasks {
		c.app.println(renderTaskRow(task))
	}
	return nil
}

// ShowCommand handles the task show command
type ShowCommand struct {
	app  *App
	user string
}

// NewShowCommand creates a new show command handler. user identifies the
// reader when reads are restricted to approvers.
func NewShowCommand(app *App, user string) *ShowCommand {
	return &ShowCommand{app: app, user: user}
}

// Execute prints one task record.
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	taskName, err := taskNameArg(args)
	if err != nil {
		return err
	}

	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	task, err := c.app.service.GetTask(ctx, taskName, c.user)
	if err != nil {
		return c.app.errors.Handle("show task", err)
	}

	c.app.println(renderTask(task))
	return nil
}

// CreateCommand handles the task create command
type CreateCommand struct {
	app         *App
	approvers   []string
	description string
	comments    []string
}

// NewCreateCommand creates a new create command handler. Each comment uses
// the packed "<text>:--:<author>" form.
func NewCreateCommand(app *App, approvers []string, description string, comments []string) *CreateCommand {
	return &CreateCommand{
		app:         app,
		approvers:   approvers,
		description: description,
		comments:    comments,
	}
}

// Execute creates a task named by the first argument.
func (c *CreateCommand) Execute(ctx context.Context, args []string) error {
	taskName, err := taskNameArg(args)
	if err != nil {
		return err
	}
	if len(c.approvers) != 3 {
		return c.app.errors.Handle("create task",
			errors.NewInvalidInputError("approver", c.approvers, fmt.Sprintf("exactly 3 approvers are required, got %d", len(c.approvers))))
	}

	task := domain.NewTask(taskName, c.description, c.approvers[0], c.approvers[1], c.approvers[2])
	for _, packed := range c.comments {
		task.AppendComment(domain.ParsePackedComment(packed))
	}

	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	created, err := c.app.service.CreateTask(ctx, task)
	if err != nil {
		return c.app.errors.Handle("create task", err)
	}

	c.app.println(successStyle.Render(fmt.Sprintf("Created task %s", created.TaskName)))
	return nil
}

// CommentCommand handles the task comment command
type CommentCommand struct {
	app  *App
	user string
}

// NewCommentCommand creates a new comment command handler
func NewCommentCommand(app *App, user string) *CommentCommand {
	return &CommentCommand{app: app, user: user}
}

// Execute appends a comment. Arguments are the task name and the text.
func (c *CommentCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", args, "usage: ta task comment <task> <text> --user <approver>")
	}

	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	if err := c.app.service.AddComment(ctx, args[0], args[1], c.user); err != nil {
		return c.app.errors.Handle("add comment", err)
	}

	c.app.println(successStyle.Render(fmt.Sprintf("Comment added to task %s", args[0])))
	return nil
}

// RecommendCommand handles the task recommend command
type RecommendCommand struct {
	app  *App
	user string
}

// NewRecommendCommand creates a new recommend command handler
func NewRecommendCommand(app *App, user string) *RecommendCommand {
	return &RecommendCommand{app: app, user: user}
}

// Execute records the recommendation. Arguments are the task name and the text.
func (c *RecommendCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", args, "usage: ta task recommend <task> <text> --user <approver>")
	}

	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	if err := c.app.service.SetRecommendation(ctx, args[0], args[1], c.user); err != nil {
		return c.app.errors.Handle("set recommendation", err)
	}

	c.app.println(successStyle.Render(fmt.Sprintf("Recommendation added to task %s", args[0])))
	return nil
}

// ClearCommentsCommand handles the task clear-comments command
type ClearCommentsCommand struct {
	app  *App
	user string
}

// NewClearCommentsCommand creates a new clear-comments command handler
func NewClearCommentsCommand(app *App, user string) *ClearCommentsCommand {
	return &ClearCommentsCommand{app: app, user: user}
}

// Execute removes every comment from the named task.
func (c *ClearCommentsCommand) Execute(ctx context.Context, args []string) error {
	taskName, err := taskNameArg(args)
	if err != nil {
		return err
	}

	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	if err := c.app.service.ClearComments(ctx, taskName, c.user); err != nil {
		return c.app.errors.Handle("clear comments", err)
	}

	c.app.println(successStyle.Render(fmt.Sprintf("Comments cleared for task %s", taskName)))
	return nil
}

func taskNameArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.NewInvalidInputError("task", args, "exactly one task name is required")
	}
	return args[0], nil
}
