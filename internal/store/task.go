package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields do not filter.
type TaskFilter struct {
	Completed *bool
	Priority  *domain.Priority
}

// Matches reports whether task satisfies every set field of the filter.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && (task.Priority == nil || *task.Priority != *f.Priority) {
		return false
	}
	return true
}

// TaskStore defines the interface for task persistence. Every lookup and
// mutation is scoped to the owning user; a task that exists under another
// owner is reported exactly like a missing one.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// List returns the owner's tasks matching filter, newest first.
	// An owner with no tasks yields an empty, non-nil slice.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// GetByID returns the task with id owned by userID.
	// Returns ErrTaskNotFound otherwise.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// Update overwrites the mutable fields of task, matching on task.ID and
	// task.UserID. Returns ErrTaskNotFound when no row matches.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with id owned by userID.
	// Returns ErrTaskNotFound when no row matches.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
