// Package migrate bootstraps the companies and jobs tables from SQL files embedded
// in the binary. Each file is applied once, in name order, and recorded in
// schema_versions. There are no down steps.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const createVersionsTable = `
	CREATE TABLE IF NOT EXISTS schema_versions (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Run applies every embedded schema file not yet recorded. It is safe to call multiple times.
func Run(ctx context.Context, db *sql.DB) error {
	return apply(ctx, db, schemaFS, "schema")
}

// Versions lists the embedded schema versions in the order Run applies them.
func Versions() ([]string, error) {
	files, err := schemaFiles(schemaFS, "schema")
	if err != nil {
		return nil, err
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = versionOf(f)
	}
	return out, nil
}

func apply(ctx context.Context, db *sql.DB, fsys fs.FS, dir string) error {
	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return fmt.Errorf("create schema_versions table: %w", err)
	}

	files, err := schemaFiles(fsys, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := applyFile(ctx, db, fsys, path.Join(dir, f)); err != nil {
			return err
		}
	}
	return nil
}

func schemaFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func versionOf(file string) string {
	return strings.TrimSuffix(path.Base(file), ".sql")
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM schema_versions WHERE version = $1)`
	if err := db.QueryRowContext(ctx, q, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check schema version %s: %w", version, err)
	}
	return exists, nil
}

// applyFile runs one schema file and records its version in a single transaction.
func applyFile(ctx context.Context, db *sql.DB, fsys fs.FS, file string) error {
	version := versionOf(file)
	applied, err := isApplied(ctx, db, version)
	if err != nil || applied {
		return err
	}

	body, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("read schema file %s: %w", file, err)
	}

	logger := slog.Default().With("component", "migrate")
	logger.InfoContext(ctx, "applying schema", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback schema transaction", "err", rbErr, "version", version)
		}
	}()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("exec schema %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_versions (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("record schema %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema %s: %w", version, err)
	}
	return nil
}
