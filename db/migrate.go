package db

import (
	"context"
	"fmt"
	"log/slog"

	"budget-server/db/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies the embedded goose migrations to database.
func Migrate(ctx context.Context, database Database) error {
	sqlDB, err := database.GetDB().DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	slog.Info("Running database migrations")
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("Database migrations completed")
	return nil
}
