// Package main implements the entry point for the taskboard API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// options are the command-line flags of the server.
type options struct {
	// migrate is a goose command run before serving, e.g. "up".
	migrate string
	// migrateOnly exits after the migration command.
	migrateOnly bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("taskboard-api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command before serving (up, down, redo, reset, status, version)")
	fs.BoolVar(&opts.migrateOnly, "migrate-only", false, "exit after running the -migrate command")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.migrateOnly && opts.migrate == "" {
		opts.migrate = "up"
	}
	return opts, nil
}

// run loads configuration, applies migrations when asked, then serves until
// ctx is cancelled.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		if err := runMigrations(ctx, cfg, logger, opts.migrate); err != nil {
			return err
		}
		if opts.migrateOnly {
			logger.Info("migrations complete, exiting", "command", opts.migrate)
			return nil
		}
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
