package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/config"
)

// loadAppConfig loads the application configuration from the environment,
// .env and the optional config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}
	if cfg.Cache.RedisURL != "" {
		slog.Debug("Cache configuration", "redis_url_present", true)
	}
	if cfg.Events.AMQPURL != "" {
		slog.Debug("Events configuration", "amqp_url_present", true, "exchange", cfg.Events.Exchange)
	}

	return cfg, nil
}
