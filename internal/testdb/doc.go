// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests using it are compiled only with the
// "integration" build tag.
package testdb
