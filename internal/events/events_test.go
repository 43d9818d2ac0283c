package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(uuid.New(), "Revisar relatório", nil, nil, nil)
	require.NoError(t, err)
	return task
}

func TestNewTaskEvent(t *testing.T) {
	task := newTask(t)

	event, err := NewTaskEvent(TypeTaskCreated, task)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeTaskCreated, event.Type)
	assert.Equal(t, task.ID, event.TaskID)
	assert.Equal(t, task.UserID, event.UserID)
	assert.WithinDuration(t, time.Now(), event.OccurredAt, 2*time.Second)

	var decoded domain.Task
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, task.Title, decoded.Title)
}

func TestNewTaskEventDeletedHasNoPayload(t *testing.T) {
	event, err := NewTaskEvent(TypeTaskDeleted, newTask(t))
	require.NoError(t, err)
	assert.Empty(t, event.Payload)
}

func TestNewTaskEventRequiresTask(t *testing.T) {
	_, err := NewTaskEvent(TypeTaskCreated, nil)
	assert.Error(t, err)
}

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	LastEvent    *TaskEvent
	HandlerError error
	HandledCount int
}

func (h *MockEventHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestEventHandlerFunc(t *testing.T) {
	var got *TaskEvent
	handler := EventHandlerFunc(func(ctx context.Context, event *TaskEvent) error {
		got = event
		return errors.New("boom")
	})

	event, err := NewTaskEvent(TypeTaskUpdated, newTask(t))
	require.NoError(t, err)

	assert.EqualError(t, handler.HandleEvent(context.Background(), event), "boom")
	assert.Same(t, event, got)
}
