// Package pgxutil bridges database/sql handles to native pgx connections so
// repositories can use pgx row scanning over a *sql.DB opened with the pgx stdlib driver.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ErrNotPgxConn is returned when db was not opened with the pgx stdlib driver.
var ErrNotPgxConn = errors.New("unexpected driver connection type; expected *stdlib.Conn")

// WithPgxConn acquires a *pgx.Conn via the stdlib bridge and executes fn with it.
// The connection returns to the pool when fn returns.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		// close failure is best-effort and ignored
		_ = conn.Close()
	}()

	return conn.Raw(func(dc any) error {
		std, ok := dc.(*stdlib.Conn)
		if !ok {
			return ErrNotPgxConn
		}
		return fn(std.Conn())
	})
}
