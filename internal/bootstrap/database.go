package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/target/jobly/config"
	"github.com/target/jobly/internal/migrate"
)

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig config.DBConfig
	Logger   *slog.Logger
}

// BuildDSN renders cfg as a postgres:// URL. Credentials are escaped.
func BuildDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// NewConnConfig parses the DSN into a pgx config and attaches the slog query tracer
// when LogQueries is set.
func NewConnConfig(cfg DatabaseConfig) (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(BuildDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.DBConfig.LogQueries && cfg.Logger != nil {
		connConfig.Tracer = &tracelog.TraceLog{
			Logger:   NewPgxLogger(cfg.Logger),
			LogLevel: tracelog.LogLevelInfo,
		}
	}
	return connConfig, nil
}

// ConnectDB opens a database/sql handle backed by the pgx driver and verifies it.
// Pool sizing is left at the database/sql defaults.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	connConfig, err := NewConnConfig(cfg)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*connConfig)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}

	return db, nil
}

// ApplySchema creates the jobly tables unless ApplySchemaOnStart is off.
func ApplySchema(ctx context.Context, db *sql.DB, cfg config.DBConfig) error {
	if !cfg.ApplySchemaOnStart {
		return nil
	}
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
