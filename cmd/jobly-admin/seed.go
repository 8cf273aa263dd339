package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/target/jobly/internal/bootstrap"
	"github.com/target/jobly/internal/data"
	"github.com/target/jobly/internal/devseed"
	"github.com/target/jobly/internal/migrate"
)

type seedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

func parseSeedFlags(args []string) (seedOptions, error) {
	fs := newFlagSet("db-seed")
	var opts seedOptions
	fs.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Maximum time to wait for seeding")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "Allow seeding a database host that does not look local")
	if err := parseFlags(fs, args); err != nil {
		return seedOptions{}, err
	}
	if opts.Timeout <= 0 {
		return seedOptions{}, usageErrorf("db-seed: -timeout must be positive")
	}
	return opts, nil
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedFlags(args)
	if err != nil {
		return err
	}
	if guardErr := guardRemoteHost(cmdCtx.Config.Postgres.Host, opts.AllowRemote); guardErr != nil {
		return guardErr
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("database close failed", "error", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()
	return seedDatabase(ctx, cmdCtx, db)
}

func seedDatabase(ctx context.Context, cmdCtx *commandContext, db *sql.DB) error {
	cmdCtx.Logger.Info("ensuring schema is current")
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	sum, err := devseed.Run(ctx, devseed.Options{
		DB:     db,
		Jobs:   data.NewJobRepo(db),
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return writeJSON(cmdCtx.Out, map[string]int{
		"companiesCreated": sum.CompaniesCreated,
		"jobsCreated":      sum.JobsCreated,
	})
}

func guardRemoteHost(host string, allow bool) error {
	if !isLikelyRemoteHost(host) || allow {
		return nil
	}
	return usageErrorf(
		"refusing to seed potentially remote database host %q; re-run with -allow-remote if this is intentional",
		host,
	)
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}
