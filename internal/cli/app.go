package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"task-approvals/internal/config"
	"task-approvals/internal/services"
)

// App holds what every command needs once configuration is resolved.
type App struct {
	service services.TaskService
	config  *config.Config
	out     io.Writer
	errors  *ErrorHandler
}

// NewApp creates a CLI application around an existing task service.
// out defaults to os.Stdout.
func NewApp(service services.TaskService, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		service: service,
		config:  cfg,
		out:     out,
		errors:  NewErrorHandler(),
	}
}

// timeout returns the configured per-command timeout.
func (a *App) timeout() time.Duration {
	if a.config != nil && a.config.Application.Timeout > 0 {
		return a.config.Application.Timeout
	}
	return 60 * time.Second
}

// withTimeout bounds ctx by the application timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout())
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}
