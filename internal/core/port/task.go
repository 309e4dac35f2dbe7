package port

import (
	"context"

	"taskboard/internal/core/domain"
)

// TaskRepository persists tasks. Every query is scoped to an owner and a task
// that exists under another owner is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateStatus(ctx context.Context, userID string, id string, status domain.TaskStatus) (domain.Task, error)
	ToggleStatus(ctx context.Context, userID string, id string) (domain.Task, error)
	Delete(ctx context.Context, userID string, id string) error
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Create(ctx context.Context, cmd domain.CreateTaskCommand) (domain.Task, error)
	UpdateStatus(ctx context.Context, userID string, id string, status *string) (domain.Task, error)
	Toggle(ctx context.Context, userID string, id string) (domain.Task, error)
	Delete(ctx context.Context, userID string, id string) error
}
