package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// TaskInput carries the fields of a new task. Nil pointers mean "not
// supplied".
type TaskInput struct {
	Title       string
	Description *string
	DueDate     *string
	Priority    *string
	Completed   *bool
}

// TaskPatch carries a partial update. Only non-nil fields change. An empty
// DueDate or Priority clears the field.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Completed   *bool
}

// TaskFilters are the raw query filters of a listing. Empty strings do not
// filter.
type TaskFilters struct {
	Completed string
	Priority  string
}

// TaskService manages a user's tasks. Every operation is scoped to userID.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error)
	GetTasks(ctx context.Context, userID uuid.UUID, filters TaskFilters) ([]*domain.Task, error)
	GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, patch TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	tasks   store.TaskStore
	runner  store.TxRunner
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTaskService creates a TaskService. emitter may be nil, in which case no
// events are published.
func NewTaskService(
	tasks store.TaskStore,
	runner store.TxRunner,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if runner == nil {
		runner = store.NoTxRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:   tasks,
		runner:  runner,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	if err := domain.ValidateTaskTitle(input.Title); err != nil {
		s.logger.Debug("rejected task title", "user_id", userID, "error", err)
		return nil, err
	}

	dueDate, err := parseOptionalDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}
	priority, err := parseOptionalPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(userID, input.Title, input.Description, dueDate, priority)
	if err != nil {
		return nil, err
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		s.logger.Error("failed to create task", "error", err, "user_id", userID)
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "user_id", userID)
	s.emit(ctx, events.TypeTaskCreated, task)
	return task, nil
}

// GetTasks implements TaskService.
func (s *taskServiceImpl) GetTasks(
	ctx context.Context,
	userID uuid.UUID,
	filters TaskFilters,
) ([]*domain.Task, error) {
	filter, err := ParseTaskFilters(filters)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "user_id", userID)
		return nil, NewServiceError("get_tasks", "failed to list tasks", err)
	}

	s.logger.Debug("listed tasks", "user_id", userID, "count", len(tasks))
	return tasks, nil
}

// GetTaskByID implements TaskService.
func (s *taskServiceImpl) GetTaskByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, s.lookupError("get_task", err, userID, taskID)
	}
	return task, nil
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch TaskPatch,
) (*domain.Task, error) {
	var updated *domain.Task
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.tasks.WithTx(tx)

		task, err := txStore.GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := applyPatch(task, patch); err != nil {
			return err
		}
		task.UpdatedAt = time.Now().UTC()
		if err := task.Validate(); err != nil {
			return err
		}
		if err := txStore.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		if isClientError(err) {
			s.logger.Debug("rejected task update", "error", err, "task_id", taskID)
			return nil, err
		}
		return nil, s.lookupError("update_task", err, userID, taskID)
	}

	s.logger.Info("task updated", "task_id", taskID, "user_id", userID)
	s.emit(ctx, events.TypeTaskUpdated, updated)
	return updated, nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	var deleted *domain.Task
	err := s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.tasks.WithTx(tx)

		task, err := txStore.GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := txStore.Delete(ctx, userID, taskID); err != nil {
			return err
		}
		deleted = task
		return nil
	})
	if err != nil {
		return s.lookupError("delete_task", err, userID, taskID)
	}

	s.logger.Info("task deleted", "task_id", taskID, "user_id", userID)
	s.emit(ctx, events.TypeTaskDeleted, deleted)
	return nil
}

// ParseTaskFilters converts raw query values into a store filter. Priority
// is matched case-insensitively; completed accepts the forms understood by
// strconv.ParseBool.
func ParseTaskFilters(filters TaskFilters) (store.TaskFilter, error) {
	var filter store.TaskFilter

	if raw := strings.TrimSpace(filters.Completed); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError("completed", "must be true or false", domain.ErrInvalidFormat)
		}
		filter.Completed = &completed
	}

	if raw := strings.TrimSpace(filters.Priority); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			return store.TaskFilter{}, err
		}
		filter.Priority = &priority
	}

	return filter, nil
}

func applyPatch(task *domain.Task, patch TaskPatch) error {
	if patch.Title != nil {
		if err := domain.ValidateTaskTitle(*patch.Title); err != nil {
			return err
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		description := *patch.Description
		task.Description = &description
	}
	if patch.DueDate != nil {
		if strings.TrimSpace(*patch.DueDate) == "" {
			task.DueDate = nil
		} else {
			due, err := domain.ParseDueDate(*patch.DueDate)
			if err != nil {
				return err
			}
			task.DueDate = &due
		}
	}
	if patch.Priority != nil {
		if strings.TrimSpace(*patch.Priority) == "" {
			task.Priority = nil
		} else {
			priority, err := domain.ParsePriority(*patch.Priority)
			if err != nil {
				return err
			}
			task.Priority = &priority
		}
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	return nil
}

func parseOptionalDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	due, err := domain.ParseDueDate(*raw)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func parseOptionalPriority(raw *string) (*domain.Priority, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	priority, err := domain.ParsePriority(*raw)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidTaskName)
}

// lookupError maps a failed scoped lookup to ErrTaskNotFound, or wraps it.
func (s *taskServiceImpl) lookupError(operation string, err error, userID, taskID uuid.UUID) error {
	if errors.Is(err, store.ErrTaskNotFound) {
		s.logger.Debug("task not found", "task_id", taskID, "user_id", userID)
		return ErrTaskNotFound
	}
	s.logger.Error("task operation failed",
		"operation", operation,
		"error", err,
		"task_id", taskID,
		"user_id", userID)
	return NewServiceError(operation, "task operation failed", err)
}

// emit publishes a task event. The change is already committed, so a
// delivery failure is logged and not returned.
func (s *taskServiceImpl) emit(ctx context.Context, eventType string, task *domain.Task) {
	if s.emitter == nil || task == nil {
		return
	}
	event, err := events.NewTaskEvent(eventType, task)
	if err != nil {
		s.logger.Error("failed to build task event", "error", err, "event_type", eventType)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish task event",
			"error", err,
			"event_type", eventType,
			"task_id", task.ID)
	}
}
