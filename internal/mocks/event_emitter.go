package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// RecordingEventEmitter implements events.EventEmitter and keeps every
// emitted event.
type RecordingEventEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent

	// Err is returned from EmitEvent after the event is recorded.
	Err error
}

var _ events.EventEmitter = (*RecordingEventEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (r *RecordingEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Events returns a copy of the recorded events.
func (r *RecordingEventEmitter) Events() []*events.TaskEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*events.TaskEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the types of the recorded events in order.
func (r *RecordingEventEmitter) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}
