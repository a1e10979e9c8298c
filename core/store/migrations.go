package store

import (
	"context"
	"embed"
	"fmt"

	"burnout-board/core/utils"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// ApplyMigrations brings the schema up to date. Each driver carries its own
// migration dir because the autoincrement and partial-index syntax differ.
func ApplyMigrations(ctx context.Context, db *DB, logger *utils.Logger) error {
	dialect := "sqlite3"
	dir := "migrations/sqlite"
	if db.Driver() == DriverPostgres {
		dialect = "postgres"
		dir = "migrations/postgres"
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Infof("store: schema at version %d", version)
	return nil
}
