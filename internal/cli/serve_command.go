package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"task-approvals/internal/api"
	"task-approvals/internal/services"
	"task-approvals/internal/telemetry"
)

const serviceName = "task-approvals"

// ServeCommand runs the HTTP API until its context is cancelled.
type ServeCommand struct {
	app    *App
	pinger api.Pinger
	logger *slog.Logger

	// ready receives the bound address once the listener is open.
	ready chan<- string
}

// NewServeCommand creates a new serve command handler. pinger may be nil.
func NewServeCommand(app *App, pinger api.Pinger, logger *slog.Logger) *ServeCommand {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ServeCommand{app: app, pinger: pinger, logger: logger}
}

// Execute serves until ctx is done, then shuts down within the configured
// shutdown timeout.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	cfg := c.app.config

	provider, err := telemetry.InitMeterProvider(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialise metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("metrics shutdown failed", "error", err)
		}
	}()

	metrics, err := telemetry.NewStoreMetrics(provider.Meter())
	if err != nil {
		return fmt.Errorf("failed to create store metrics: %w", err)
	}

	router := api.NewRouter(api.Options{
		Service:        services.NewInstrumentedTaskService(c.app.service, metrics),
		Logger:         c.logger,
		Pinger:         c.pinger,
		MetricsHandler: provider.Handler(),
		UseOtelHTTP:    true,
	})
	srv := api.NewServer(cfg, router)

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	addr := listener.Addr().String()
	c.logger.Info("task store listening", "addr", addr, "backend", cfg.Storage.Backend)
	if c.ready != nil {
		c.ready <- addr
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
