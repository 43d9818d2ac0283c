package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Service errors checked by callers with errors.Is. The API layer maps each
// of them to an HTTP status.
var (
	// ErrAuthentication is returned for a failed login. The same error covers an
	// unknown email and a wrong password.
	ErrAuthentication = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = store.ErrEmailExists

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = store.ErrUserNotFound

	// ErrTaskNotFound is returned when no task matches (task id, owner id).
	// A task owned by someone else is reported the same way.
	ErrTaskNotFound = store.ErrTaskNotFound

	// ErrInvalidTaskName is returned when a title is empty or starts with a digit.
	ErrInvalidTaskName = domain.ErrInvalidTaskName
)

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// NewServiceError creates a ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
