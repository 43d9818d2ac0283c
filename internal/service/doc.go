// Package service contains the application's use cases. It coordinates
// domain objects and the store interfaces (internal/store) to fulfill
// features, and never depends on a particular store implementation.
//
// Two services live here:
//
//   - AuthService registers users, checks credentials, and issues and
//     refreshes tokens via internal/service/auth.
//   - TaskService creates, lists, updates and deletes a user's tasks. Every
//     lookup is scoped to the owner, and changes are published as task
//     events once committed.
//
// Services return sentinel errors (ErrAuthentication, ErrDuplicateEmail,
// ErrTaskNotFound, ErrInvalidTaskName) and domain validation errors for
// expected failures; anything else is wrapped in a ServiceError. The API
// layer maps them to HTTP statuses.
package service
