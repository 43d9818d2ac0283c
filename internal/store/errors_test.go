package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"wrapped ErrTaskNotFound", fmt.Errorf("failed to find task: %w", ErrTaskNotFound), true},
		{"ErrEmailExists", ErrEmailExists, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(ErrTaskNotFound))
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("failed to create user: %w", ErrEmailExists)))
}

func TestEntityErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.NotErrorIs(t, ErrTaskNotFound, ErrUserNotFound)
	assert.NotErrorIs(t, ErrUserNotFound, ErrTaskNotFound)
	assert.Equal(t, "entity not found: task", ErrTaskNotFound.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	originalErr := errors.New("database connection failed")
	storeErr := NewStoreError("task", "create", "database error", originalErr)

	assert.Equal(t,
		"create operation on task failed: database error: database connection failed",
		storeErr.Error())
	assert.ErrorIs(t, storeErr, originalErr)

	bare := NewStoreError("user", "get", "lookup failed", nil)
	assert.Equal(t, "get operation on user failed: lookup failed", bare.Error())
}

func TestTaskFilterMatches(t *testing.T) {
	t.Parallel()

	yes := true
	no := false
	high := domain.PriorityHigh

	task := &domain.Task{Completed: true, Priority: &high}
	assert.True(t, TaskFilter{}.Matches(task))
	assert.True(t, TaskFilter{Completed: &yes}.Matches(task))
	assert.False(t, TaskFilter{Completed: &no}.Matches(task))

	assert.True(t, TaskFilter{Completed: &yes, Priority: &high}.Matches(task))

	untagged := &domain.Task{}
	assert.False(t, TaskFilter{Priority: &high}.Matches(untagged))
}
