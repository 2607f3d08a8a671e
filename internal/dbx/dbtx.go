// Package dbx provides a tiny DB abstraction shared by storage code: a
// minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx, so the
// same query code runs inside and outside transactions.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our storage layer.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
