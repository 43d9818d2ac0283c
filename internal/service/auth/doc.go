// Package auth issues and verifies JWT access and refresh tokens, hashes
// passwords with bcrypt, and tracks exchanged refresh tokens so each one is
// accepted only once.
package auth
