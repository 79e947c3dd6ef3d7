package library

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/zonkit/internal/library/migrations"
)

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

// runMigrations applies the embedded migrations for dialect ("postgres" or
// "sqlite3") from directory dir of migrations.FS.
func runMigrations(ctx context.Context, sqlDB *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// RunPostgresMigrations runs goose migrations on the given PostgreSQL DSN.
func RunPostgresMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return runMigrations(ctx, sqlDB, "postgres", "postgres")
}
