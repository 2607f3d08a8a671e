package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crewdesk/crewdesk-go/internal/storage/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded storage migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the local storage database at dsn,
// migrates it, and returns a ready Repository together with the underlying
// handle for the caller to close.
func Open(ctx context.Context, dsn string) (*SQLiteRepository, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return NewSQLiteRepository(db), db, nil
}
