// Package events carries task lifecycle notifications from the task service to
// whatever is listening: the application log, and a message broker when one is
// configured.
//
// Services depend only on EventEmitter. Handlers are registered on an
// InMemoryEventEmitter at startup.
package events
