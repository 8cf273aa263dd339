package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/target/jobly/config"
	"github.com/target/jobly/internal/bootstrap"
	"github.com/target/jobly/internal/data"
	apperrors "github.com/target/jobly/internal/errors"
	"github.com/target/jobly/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer

	// jobs is opened on first use so flag errors never touch the database.
	jobs func() (jobService, func(), error)
}

const defaultCommandTimeout = 30 * time.Second

func main() {
	logger := bootstrap.InitLogger(os.Stderr, slog.LevelInfo)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger = bootstrap.InitLogger(os.Stderr, cfg.Observability.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	cmdCtx.jobs = func() (jobService, func(), error) { return openJobService(cmdCtx) }

	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		if errors.Is(runErr, flag.ErrHelp) {
			return
		}
		reportError(logger, cmdName, runErr)
		stop()
		os.Exit(exitCode(runErr)) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"jobs-create": {
			name:        "jobs-create",
			description: "Create a job for an existing company",
			run:         runJobsCreate,
		},
		"jobs-list": {
			name:        "jobs-list",
			description: "List jobs ordered by title, with optional filters",
			run:         runJobsList,
		},
		"jobs-get": {
			name:        "jobs-get",
			description: "Show a job with its company",
			run:         runJobsGet,
		},
		"jobs-update": {
			name:        "jobs-update",
			description: "Change the title, salary or equity of a job",
			run:         runJobsUpdate,
		},
		"jobs-delete": {
			name:        "jobs-delete",
			description: "Delete a job",
			run:         runJobsDelete,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Insert sample companies and jobs into a development database",
			run:         runDBSeed,
		},
		"companies-get": {
			name:        "companies-get",
			description: "Show a company by handle",
			run:         runCompaniesGet,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: jobly-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, commands()[name].description); err != nil {
			return err
		}
	}
	return nil
}

// openJobService connects to Postgres, applies the schema when configured and
// returns the service with a close func.
func openJobService(cmdCtx *commandContext) (jobService, func(), error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("database close failed", "error", cerr)
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()
	if schemaErr := bootstrap.ApplySchema(ctx, db, cmdCtx.Config.Postgres); schemaErr != nil {
		closeDB()
		return nil, nil, schemaErr
	}

	svc := service.MustNewJobService(service.JobServiceOptions{
		Repo:      data.NewJobRepo(db),
		Companies: data.NewCompanyRepo(db),
		Logger:    cmdCtx.Logger,
	})
	return svc, closeDB, nil
}

// reportError logs the failure with its user-facing form. Driver errors are
// translated so operators see "Company not found" rather than a constraint name.
func reportError(logger *slog.Logger, cmdName string, err error) {
	mapped := apperrors.MapDBError(err)
	logger.Error("command failed",
		"command", cmdName,
		"code", string(apperrors.GetCode(mapped)),
		"field", apperrors.GetField(mapped),
		"error", mapped.Error(),
	)
}

// exitCode is 2 for usage errors and 1 for everything else.
func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
