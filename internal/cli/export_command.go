package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"task-approvals/internal/domain"
	"task-approvals/internal/errors"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app    *App
	format string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App, format string) *ExportCommand {
	return &ExportCommand{app: app, format: format}
}

// Execute writes every task in the chosen format. A "format=<name>"
// argument overrides the --format flag.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format := c.format
	if len(args) > 0 {
		if !strings.HasPrefix(args[0], "format=") {
			return errors.NewInvalidInputError("format", args[0], "invalid format option")
		}
		format = strings.TrimPrefix(args[0], "format=")
	}
	if format == "" {
		format = FormatJSON
	}

	switch format {
	case FormatJSON, FormatYAML, FormatCSV:
	default:
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}

	ctx, cancel := c.app.withTimeout(ctx)
	defer cancel()

	tasks, err := c.app.service.ListTasks(ctx)
	if err != nil {
		return c.app.errors.Handle("export tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	switch format {
	case FormatYAML:
		return c.outputYAML(tasks)
	case FormatCSV:
		return c.outputCSV(tasks)
	default:
		return c.outputJSON(tasks)
	}
}

func (c *ExportCommand) outputJSON(tasks []*domain.Task) error {
	enc := json.NewEncoder(c.app.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func (c *ExportCommand) outputYAML(tasks []*domain.Task) error {
	enc := yaml.NewEncoder(c.app.out)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return nil
}

// outputCSV writes one row per task. Comments are packed and newline separated.
func (c *ExportCommand) outputCSV(tasks []*domain.Task) error {
	writer := csv.NewWriter(c.app.out)

	header := []string{"Task Name", "Approver 1", "Approver 2", "Approver 3", "Description", "Recommendation", "Decision Maker", "Comments"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, task := range tasks {
		row := []string{
			task.TaskName,
			task.Approver1,
			task.Approver2,
			task.Approver3,
			task.TaskDescription,
			task.Recommendation,
			task.DecisionMaker,
			strings.Join(domain.PackComments(task.Comments), "\n"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
