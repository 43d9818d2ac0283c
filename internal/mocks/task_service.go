package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn  func(ctx context.Context, userID uuid.UUID, input service.TaskInput) (*domain.Task, error)
	GetTasksFn    func(ctx context.Context, userID uuid.UUID, filters service.TaskFilters) ([]*domain.Task, error)
	GetTaskByIDFn func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn  func(ctx context.Context, userID, taskID uuid.UUID, patch service.TaskPatch) (*domain.Task, error)
	DeleteTaskFn  func(ctx context.Context, userID, taskID uuid.UUID) error

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	DefaultError error
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements service.TaskService.
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input service.TaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return m.Task, m.DefaultError
}

// GetTasks implements service.TaskService.
func (m *MockTaskService) GetTasks(
	ctx context.Context,
	userID uuid.UUID,
	filters service.TaskFilters,
) ([]*domain.Task, error) {
	if m.GetTasksFn != nil {
		return m.GetTasksFn(ctx, userID, filters)
	}
	return m.Tasks, m.DefaultError
}

// GetTaskByID implements service.TaskService.
func (m *MockTaskService) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskByIDFn != nil {
		return m.GetTaskByIDFn(ctx, userID, taskID)
	}
	return m.Task, m.DefaultError
}

// UpdateTask implements service.TaskService.
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch service.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, patch)
	}
	return m.Task, m.DefaultError
}

// DeleteTask implements service.TaskService.
func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return m.DefaultError
}
