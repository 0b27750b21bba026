package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"task-approvals/internal/api"
	"task-approvals/internal/config"
	"task-approvals/internal/errors"
	"task-approvals/internal/logging"
	"task-approvals/internal/repository"
	"task-approvals/internal/services"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	out    io.Writer
	logOut io.Writer
	flags  globalFlags

	config *config.Config
	logger *slog.Logger
	repo   repository.Repository
	app    *App
}

type globalFlags struct {
	configFile     string
	backend        string
	root           string
	database       string
	dsn            string
	dirPermissions string
	logFormat      string
	restrictReads  bool
	verbose        bool
}

// NewRootCommand creates the root cobra command with global flags. Command
// output goes to out; logs go to stderr.
func NewRootCommand(out io.Writer) *RootCommand {
	if out == nil {
		out = os.Stdout
	}
	root := &RootCommand{
		out:    out,
		logOut: os.Stderr,
	}

	root.cmd = &cobra.Command{
		Use:   "ta",
		Short: "A task approval store",
		Long: `Task Approvals (ta) keeps approval tasks, each with three approvers, their
comments and a single recommendation.

EXAMPLES:
  ta task create T1 -a alice -a bob -a carol -d "Quarterly budget"
  ta task comment T1 "looks fine" --user alice
  ta task recommend T1 approve --user carol
  ta task show T1
  ta task clear-comments T1 --user bob
  ta export --format csv > tasks.csv
  ta serve --addr :8080

CONFIGURATION:
  Configuration follows this priority order: flags > environment variables > config file > defaults
  The config file is ta.yaml in the working directory or ~/.task-approvals, or TA_CONFIG.

  Storage Configuration:
    TA_STORAGE_BACKEND                     file, sqlite or postgres (default: file)
    TA_STORAGE_ROOT                        Storage root directory (default: ~/.task-approvals)
    TA_STORAGE_DATABASE                    Logical database name (default: approvals)
    TA_STORAGE_DSN, DATABASE_URL           Postgres connection string
    TA_STORAGE_DIR_PERMISSIONS             Directory mode in octal (default: 0755)
    TA_STORAGE_MAX_CONNS                   Postgres pool size (default: 10)

  Server Configuration:
    TA_SERVER_ADDR                         Listen address (default: :8080)
    TA_SERVER_READ_TIMEOUT                 Read timeout (default: 15s)
    TA_SERVER_WRITE_TIMEOUT                Write timeout (default: 15s)
    TA_SERVER_SHUTDOWN_TIMEOUT             Graceful shutdown timeout (default: 10s)

  Validation Configuration:
    TA_VALIDATION_TASK_NAME_MIN            Min task name length (default: 1)
    TA_VALIDATION_TASK_NAME_MAX            Max task name length (default: 255)

  Access Configuration:
    TA_ACCESS_RESTRICT_READS               Only approvers may read a task (default: false)

  Application Configuration:
    TA_APP_TIMEOUT                         Per-command timeout (default: 60s)
    TA_APP_VERBOSE                         Enable debug logging (default: false)
    TA_LOG_FORMAT                          text or json (default: text)
    TA_DEBUG                               Enable debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}
	root.cmd.SetOut(out)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the store afterwards.
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the arguments taken from os.Args.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetLogOutput redirects log output.
func (r *RootCommand) SetLogOutput(w io.Writer) {
	r.logOut = w
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.flags.configFile, "config", "", "Config file (overrides TA_CONFIG)")

	// Storage configuration
	flags.StringVar(&r.flags.backend, "backend", "", "Storage backend: file, sqlite or postgres (overrides TA_STORAGE_BACKEND)")
	flags.StringVar(&r.flags.root, "root", "", "Storage root directory (overrides TA_STORAGE_ROOT)")
	flags.StringVar(&r.flags.database, "database", "", "Logical database name (overrides TA_STORAGE_DATABASE)")
	flags.StringVar(&r.flags.dsn, "dsn", "", "Postgres connection string (overrides TA_STORAGE_DSN)")
	flags.StringVar(&r.flags.dirPermissions, "dir-permissions", "", "Directory mode in octal (overrides TA_STORAGE_DIR_PERMISSIONS)")

	// Access configuration
	flags.BoolVar(&r.flags.restrictReads, "restrict-reads", false, "Only approvers may read a task (overrides TA_ACCESS_RESTRICT_READS)")

	// Application configuration
	flags.BoolVarP(&r.flags.verbose, "verbose", "v", false, "Enable debug logging (overrides TA_APP_VERBOSE)")
	flags.StringVar(&r.flags.logFormat, "log-format", "", "Log format: text or json (overrides TA_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Create, inspect and annotate approval tasks",
	}
	taskCmd.AddCommand(
		r.newListCmd(),
		r.newShowCmd(),
		r.newCreateCmd(),
		r.newCommentCmd(),
		r.newRecommendCmd(),
		r.newClearCommentsCmd(),
	)

	r.cmd.AddCommand(
		taskCmd,
		r.newExportCmd(),
		r.newServeCmd(),
	)
}

func (r *RootCommand) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewListCommand(app) })
		},
	}
}

func (r *RootCommand) newShowCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show a task with its comments and recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewShowCommand(app, user) })
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Reader identity, checked when reads are restricted")
	return cmd
}

func (r *RootCommand) newCreateCmd() *cobra.Command {
	var (
		approvers   []string
		description string
		comments    []string
	)
	cmd := &cobra.Command{
		Use:   "create <task>",
		Short: "Create a task with three approvers",
		Long: `Create a task with exactly three approvers.

Initial comments use the packed form "<text>:--:<author>".

Example:
  ta task create T1 -a alice -a bob -a carol -d "Quarterly budget" --comment "draft attached:--:alice"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command {
				return NewCreateCommand(app, approvers, description, comments)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&approvers, "approver", "a", nil, "Approver identity (repeat three times)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringArrayVar(&comments, "comment", nil, "Initial comment as <text>:--:<author> (repeatable)")
	return cmd
}

func (r *RootCommand) newCommentCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "comment <task> <text>",
		Short: "Add a comment to a task as one of its approvers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewCommentCommand(app, user) })
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Approver adding the comment")
	return cmd
}

func (r *RootCommand) newRecommendCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "recommend <task> <text>",
		Short: "Record the recommendation for a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewRecommendCommand(app, user) })
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Approver making the recommendation")
	return cmd
}

func (r *RootCommand) newClearCommentsCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "clear-comments <task>",
		Short: "Remove every comment from a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewClearCommentsCommand(app, user) })
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Approver clearing the comments")
	return cmd
}

func (r *RootCommand) newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [format=json|yaml|csv]",
		Short: "Export every task",
		Long: `Export every task in the specified format.

Supported formats:
  json - JSON array of task records (default)
  yaml - YAML sequence of task records
  csv  - One row per task, comments packed and newline separated

Example:
  ta export --format csv > tasks.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewExportCommand(app, format) })
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "Output format: json, yaml or csv")
	return cmd
}

func (r *RootCommand) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task store over HTTP",
		Long: `Serve the task store over HTTP until interrupted.

Routes:
  GET    /tasks
  POST   /tasks/create/{taskName}
  GET    /tasks/{taskName}
  POST   /tasks/{taskName}/comments
  DELETE /tasks/{taskName}/comments
  POST   /tasks/{taskName}/recommendation
  GET    /health
  GET    /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			pinger, _ := r.repo.(api.Pinger)
			return NewServeCommand(app, pinger, r.logger).Execute(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides TA_SERVER_ADDR)")
	return cmd
}

// run opens the store if needed and executes the handler built by newCommand.
func (r *RootCommand) run(cmd *cobra.Command, args []string, newCommand func(app *App) Command) error {
	app, err := r.ensureApp(cmd.Context())
	if err != nil {
		return err
	}
	return newCommand(app).Execute(cmd.Context(), args)
}

// loadConfig resolves configuration from file, environment and the flags
// that were explicitly set.
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("config") {
		overrides.ConfigFile = &r.flags.configFile
	}
	if flags.Changed("backend") {
		overrides.Backend = &r.flags.backend
	}
	if flags.Changed("root") {
		overrides.Root = &r.flags.root
	}
	if flags.Changed("database") {
		overrides.Database = &r.flags.database
	}
	if flags.Changed("dsn") {
		overrides.DSN = &r.flags.dsn
	}
	if flags.Changed("dir-permissions") {
		perm, err := strconv.ParseUint(r.flags.dirPermissions, 8, 32)
		if err != nil {
			return errors.NewInvalidInputError("dir-permissions", r.flags.dirPermissions, "must be an octal mode such as 0755")
		}
		mode := uint32(perm)
		overrides.DirPermissions = &mode
	}
	if flags.Changed("restrict-reads") {
		overrides.RestrictReads = &r.flags.restrictReads
	}
	if flags.Changed("verbose") {
		overrides.Verbose = &r.flags.verbose
	}
	if flags.Changed("log-format") {
		overrides.LogFormat = &r.flags.logFormat
	}
	if cmd.Flags().Changed("addr") {
		addr, _ := cmd.Flags().GetString("addr")
		overrides.Addr = &addr
	}

	cfg, err := config.NewLoader().LoadWithOverrides(overrides)
	if err != nil {
		return err
	}
	r.config = cfg

	r.logger = logging.NewLogger(logging.Options{
		Format:  cfg.Application.LogFormat,
		Verbose: cfg.Application.Verbose,
		Writer:  r.logOut,
	})
	slog.SetDefault(r.logger)
	return nil
}

// ensureApp opens the configured store on first use.
func (r *RootCommand) ensureApp(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}

	repo, err := config.CreateRepository(ctx, r.config)
	if err != nil {
		return nil, err
	}
	r.repo = repo
	r.logger.Debug("store opened", "backend", r.config.Storage.Backend, "database", r.config.Storage.Database)

	svc := services.NewTaskService(repo, services.WithConfig(r.config), services.WithLogger(r.logger))
	r.app = NewApp(svc, r.config, r.out)
	return r.app, nil
}

func (r *RootCommand) close() {
	if r.repo == nil {
		return
	}
	if err := r.repo.Close(); err != nil && r.logger != nil {
		r.logger.Warn("failed to close store", "error", err)
	}
	r.repo = nil
	r.app = nil
}
