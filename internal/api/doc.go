// Package api turns HTTP requests into service calls and service results into
// JSON responses. Handlers decode and validate input, take the caller's
// identity from the context populated by middleware.AuthMiddleware, and map
// service errors to status codes through HandleAPIError.
package api
