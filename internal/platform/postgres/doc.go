// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces, the connection setup used by the server, and goose-driven
// schema migrations.
package postgres
