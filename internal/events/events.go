package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Task lifecycle event types. They double as routing keys on the broker.
const (
	TypeTaskCreated = "task.created"
	TypeTaskUpdated = "task.updated"
	TypeTaskDeleted = "task.deleted"
)

// TaskEvent records a change to a single task.
type TaskEvent struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	TaskID uuid.UUID `json:"task_id"`
	UserID uuid.UUID `json:"user_id"`

	// Payload is the task as JSON after the change. Empty for deletions.
	Payload json.RawMessage `json:"payload,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent builds an event of eventType for task. The task snapshot is
// embedded unless the event is a deletion.
func NewTaskEvent(eventType string, task *domain.Task) (*TaskEvent, error) {
	if task == nil {
		return nil, fmt.Errorf("cannot build %s event without a task", eventType)
	}

	event := &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     task.ID,
		UserID:     task.UserID,
		OccurredAt: time.Now().UTC(),
	}

	if eventType != TypeTaskDeleted {
		payload, err := json.Marshal(task)
		if err != nil {
			return nil, fmt.Errorf("failed to encode task payload: %w", err)
		}
		event.Payload = payload
	}

	return event, nil
}

// UnmarshalPayload decodes the task snapshot into v.
func (e *TaskEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler processes emitted events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes events to interested handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
