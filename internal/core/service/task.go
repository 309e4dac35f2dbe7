package service

import (
	"context"
	"log/slog"
	"time"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
)

const taskServiceName = "task"

type TaskService struct {
	repo  port.TaskRepository
	probe port.Telemetry
	now   func() time.Time
}

func NewTaskService(repo port.TaskRepository, probe port.Telemetry) *TaskService {
	return &TaskService{
		repo:  repo,
		probe: probe,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]domain.Task, error) {
	ctx, span, finish := s.observe(ctx, "List", userID)

	tasks, err := s.repo.ListByOwner(ctx, userID)
	span.SetAttributes(map[string]any{"task.count": len(tasks)})
	finish(err)

	if err != nil {
		slog.ErrorContext(ctx, "Task#List", "user_id", userID, "error", err)
		return nil, err
	}

	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, cmd domain.CreateTaskCommand) (domain.Task, error) {
	ctx, _, finish := s.observe(ctx, "Create", cmd.UserID)

	task, err := domain.NewTask(cmd, s.now())

	if err != nil {
		finish(err)
		return domain.Task{}, err
	}

	task, err = s.repo.Create(ctx, task)
	finish(err)

	if err != nil {
		slog.ErrorContext(ctx, "Task#Create", "title", cmd.Title, "error", err)
		return domain.Task{}, err
	}

	s.probe.RecordBusinessEvent(ctx, "task.created", "task", task.ID, task.UserID, map[string]any{
		"task.status": task.Status.String(),
	})

	return task, nil
}

// UpdateStatus sets an explicit status. A nil status marks the task Done.
func (s *TaskService) UpdateStatus(ctx context.Context, userID string, id string, status *string) (domain.Task, error) {
	ctx, _, finish := s.observe(ctx, "UpdateStatus", userID)

	next, err := domain.ParseTaskStatus(status)

	if err != nil {
		finish(err)
		return domain.Task{}, err
	}

	task, err := s.repo.UpdateStatus(ctx, userID, id, next)
	finish(err)

	if err != nil {
		return domain.Task{}, err
	}

	s.probe.RecordBusinessEvent(ctx, "task.status_changed", "task", task.ID, userID, map[string]any{
		"task.status": task.Status.String(),
	})

	return task, nil
}

func (s *TaskService) Toggle(ctx context.Context, userID string, id string) (domain.Task, error) {
	ctx, _, finish := s.observe(ctx, "Toggle", userID)

	task, err := s.repo.ToggleStatus(ctx, userID, id)
	finish(err)

	if err != nil {
		return domain.Task{}, err
	}

	s.probe.RecordBusinessEvent(ctx, "task.status_changed", "task", task.ID, userID, map[string]any{
		"task.status": task.Status.String(),
	})

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, id string) error {
	ctx, _, finish := s.observe(ctx, "Delete", userID)

	err := s.repo.Delete(ctx, userID, id)
	finish(err)

	if err != nil {
		return err
	}

	s.probe.RecordBusinessEvent(ctx, "task.deleted", "task", id, userID, nil)

	return nil
}

func (s *TaskService) observe(ctx context.Context, operation string, userID string) (context.Context, port.Span, func(error)) {
	start := time.Now()
	ctx, span := s.probe.StartServiceSpan(ctx, taskServiceName, operation, userID, nil)

	return ctx, span, func(err error) {
		s.probe.RecordServiceOperation(ctx, taskServiceName, operation, userID, time.Since(start), err)
		finishSpan(ctx, s.probe, span, "Task#"+operation, err, map[string]any{"user_id": userID})
	}
}
