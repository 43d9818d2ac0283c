package auth

import "errors"

// Token and credential errors. Every one of them maps to 401 at the HTTP edge.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType is returned when an access token is presented where a
	// refresh token is expected, or the reverse.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrRefreshTokenReused is returned when a refresh token that was already
	// exchanged is presented again.
	ErrRefreshTokenReused = errors.New("refresh token has already been used")
)
