package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "Pending"
	TaskStatusDone    TaskStatus = "Done"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// AnonymousOwner owns every task created without a resolved identity.
const AnonymousOwner = ""

type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTaskCommand is the validated input of the create operation.
type CreateTaskCommand struct {
	Title       string
	Description string
	UserID      string
}

func NewTask(cmd CreateTaskCommand, now time.Time) (Task, error) {
	title := strings.TrimSpace(cmd.Title)

	if title == "" {
		return Task{}, ErrTaskTitleRequired
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Task{}, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	}

	description := strings.TrimSpace(cmd.Description)

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return Task{}, fmt.Errorf("%w: description must be at most %d characters", ErrValidation, MaxDescriptionLength)
	}

	return Task{
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		UserID:      cmd.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (t *Task) BelongsToUser(userID string) bool {
	return t.UserID == userID
}

func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusDone
}

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskStatusDone {
		return TaskStatusPending
	}

	return TaskStatusDone
}

// ParseTaskStatus resolves an optional status value. A nil value means Done.
func ParseTaskStatus(value *string) (TaskStatus, error) {
	if value == nil {
		return TaskStatusDone, nil
	}

	status := TaskStatus(*value)

	if !status.IsValid() {
		return "", ErrInvalidTaskStatus
	}

	return status, nil
}
