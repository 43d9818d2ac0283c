// Package config loads application settings from environment variables
// (prefix TASKBOARD_), an optional .env file and an optional config file,
// and validates them before the server starts.
package config
