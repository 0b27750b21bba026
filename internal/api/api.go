// Package api exposes the task store over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"task-approvals/internal/config"
	"task-approvals/internal/services"
)

// Options configures NewRouter.
type Options struct {
	Service services.TaskService
	Logger  *slog.Logger
	// Pinger backs /health; nil reports healthy unconditionally.
	Pinger Pinger
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	// MaxBodyBytes defaults to 1 MiB.
	MaxBodyBytes int64
	// UseOtelHTTP wraps the router with otelhttp request metrics.
	UseOtelHTTP bool
}

// NewRouter creates the chi router with all routes and middleware.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxRequestBodyBytes
	}

	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	r.Use(BodyLimit(maxBody))

	healthH := NewHealthHandler(opts.Pinger)
	taskH := NewTaskHandler(opts.Service)

	r.Get("/health", healthH.Health)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskH.List)
		r.Post("/create/{taskName}", taskH.Create)
		r.Get("/{taskName}", taskH.Get)
		r.Post("/{taskName}/comments", taskH.AddComment)
		r.Delete("/{taskName}/comments", taskH.ClearComments)
		r.Post("/{taskName}/recommendation", taskH.SetRecommendation)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	var handler http.Handler = r
	if opts.UseOtelHTTP {
		handler = otelhttp.NewHandler(handler, "task-approvals")
	}
	return handler
}

// NewServer builds an http.Server for handler using the server section of cfg.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.WriteTimeout,
	}
}
