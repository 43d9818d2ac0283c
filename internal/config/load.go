package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TASKBOARD_SERVER_PORT for server.port.
const EnvPrefix = "TASKBOARD"

// ConfigFileEnv names an explicit config file to read.
const ConfigFileEnv = "TASKBOARD_CONFIG_FILE"

var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.log_format":                   "json",
	"server.shutdown_timeout_seconds":     10,
	"database.driver":                     DriverPostgres,
	"database.max_open_conns":             10,
	"database.max_idle_conns":             5,
	"database.conn_max_lifetime_minutes":  5,
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
	"auth.bcrypt_cost":                    10,
	"events.exchange":                     "taskboard.events",
	"cors.allowed_origins":                []string{"http://localhost:3000"},
}

// Keys without defaults still have to be bound so AutomaticEnv sees them
// during Unmarshal.
var boundKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"cache.redis_url",
	"events.amqp_url",
}

// Load reads configuration. Precedence, highest first: environment
// variables, a .env file in the working directory, the config file named by
// TASKBOARD_CONFIG_FILE or ./config.yaml, then built-in defaults.
func Load() (*Config, error) {
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Database.Driver == DriverPostgres && c.Database.URL == "" {
		return fmt.Errorf("config validation failed: database.url is required for the postgres driver")
	}
	return nil
}
