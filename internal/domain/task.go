package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Priority is the urgency level of a task.
type Priority string

// Supported priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DueDateLayout is the calendar-date form accepted for due dates.
const DueDateLayout = "2006-01-02"

// MaxTaskTitleLength is the title limit in characters, matching tasks.title.
const MaxTaskTitleLength = 255

// Task validation errors
var (
	// ErrInvalidTaskName is returned when a title is empty or starts with a digit.
	ErrInvalidTaskName = errors.New("invalid task name")

	ErrTaskTitleTooLong = fmt.Errorf("%w: title must be at most %d characters", ErrInvalidTaskName, MaxTaskTitleLength)

	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidDueDate  = errors.New("invalid due date")
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *Priority  `json:"priority"`
	Completed   bool       `json:"completed"`
	UserID      uuid.UUID  `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a task for the given owner. Optional fields may be nil.
func NewTask(
	userID uuid.UUID,
	title string,
	description *string,
	dueDate *time.Time,
	priority *Priority,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}
	if t.Priority != nil && !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	return nil
}

// ValidateTaskTitle enforces the naming rule: a title must not be blank and
// must not begin with an ASCII digit 0-9.
func ValidateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTaskName)
	}
	if first := title[0]; first >= '0' && first <= '9' {
		return fmt.Errorf("%w: title cannot start with a digit", ErrInvalidTaskName)
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	return nil
}

// Valid reports whether p is one of the supported priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority converts a raw string into a Priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	return p, nil
}

// ParseDueDate parses a due date given either as a calendar date
// ("2025-05-30", interpreted as midnight UTC) or as an RFC 3339 timestamp.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DueDateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, NewValidationError("due_date", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp", ErrInvalidDueDate)
}
