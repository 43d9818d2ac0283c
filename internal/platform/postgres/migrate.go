package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

// Supported migration commands.
var migrationCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"redo":    true,
	"reset":   true,
	"status":  true,
	"version": true,
}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// SlogGooseLogger adapts goose's logger interface to slog. Fatalf logs at
// error level and does not exit, so callers keep control of the exit path.
type SlogGooseLogger struct {
	Logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *SlogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger().Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger.
func (l *SlogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger().Error(fmt.Sprintf(format, v...))
}

func (l *SlogGooseLogger) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger.With(slog.String("component", "migrations"))
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unsupported migration command %q", command)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(&SlogGooseLogger{Logger: logger})
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
