package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func prepareGoose() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// Migrate runs a goose command (up, down, status, redo, reset, version)
// against the embedded migrations.
func Migrate(ctx context.Context, conn *sql.DB, command string) error {
	if err := prepareGoose(); err != nil {
		return err
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, conn, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, conn, migrationsDir)
	case "redo":
		err = goose.RedoContext(ctx, conn, migrationsDir)
	case "reset":
		err = goose.ResetContext(ctx, conn, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, conn, migrationsDir)
	case "version":
		err = goose.VersionContext(ctx, conn, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
