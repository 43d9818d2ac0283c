package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
)

// runMigrations executes one goose command against the configured database.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	migrationLogger := logger.With(
		"correlation_id", uuid.NewString(),
		"component", "migrations",
		"command", command,
	)

	db, err := setupAppDatabase(ctx, cfg, migrationLogger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			migrationLogger.Error("failed to close migration connection", "error", cerr)
		}
	}()

	start := time.Now()
	migrationLogger.Info("Starting migration operation")
	if err := postgres.Migrate(ctx, db, command, migrationLogger); err != nil {
		migrationLogger.Error("Migration failed", "error", err, "duration", time.Since(start))
		return err
	}

	migrationLogger.Info("Migration operation completed", "duration", time.Since(start))
	return nil
}
