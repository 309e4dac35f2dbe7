package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskboard/internal/adapter/database/sqlite"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	tel "taskboard/internal/core/telemetry"
)

const tasksTable = "tasks"

var taskColumns = []string{"uuid", "title", "description", "status", "user_id", "created_at", "updated_at"}

type TaskRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *sqlite.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (r *TaskRepository) ListByOwner(ctx context.Context, userID string) (tasks []domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "ListByOwner", "task")
	defer func() { done(err) }()

	query, args, err := r.db.QueryBuilder.Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	tasks = make([]domain.Task, 0)

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Create", "task")
	defer func() { done(err) }()

	task.ID = uuid.NewString()

	query, args, err := r.db.QueryBuilder.Insert(tasksTable).
		Columns(taskColumns...).
		Values(task.ID, task.Title, task.Description, task.Status.String(), task.UserID, task.CreatedAt, task.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, userID string, id string, status domain.TaskStatus) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "UpdateStatus", "task")
	defer func() { done(err) }()

	return r.updateReturning(ctx, userID, id, status.String())
}

// ToggleStatus flips the status inside a single UPDATE statement.
func (r *TaskRepository) ToggleStatus(ctx context.Context, userID string, id string) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "ToggleStatus", "task")
	defer func() { done(err) }()

	flip := sq.Expr("CASE WHEN status = ? THEN ? ELSE ? END",
		domain.TaskStatusDone.String(), domain.TaskStatusPending.String(), domain.TaskStatusDone.String())

	return r.updateReturning(ctx, userID, id, flip)
}

func (r *TaskRepository) Delete(ctx context.Context, userID string, id string) (err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Delete", "task")
	defer func() { done(err) }()

	query, args, err := r.db.QueryBuilder.Delete(tasksTable).
		Where(sq.Eq{"uuid": id, "user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) updateReturning(ctx context.Context, userID string, id string, status any) (domain.Task, error) {
	query, args, err := r.db.QueryBuilder.Update(tasksTable).
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"uuid": id, "user_id": userID}).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, err
	}

	if affected, err := result.RowsAffected(); err != nil {
		return domain.Task{}, err
	} else if affected == 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	return r.getByID(ctx, userID, id)
}

func (r *TaskRepository) getByID(ctx context.Context, userID string, id string) (domain.Task, error) {
	query, args, err := r.db.QueryBuilder.Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"uuid": id, "user_id": userID}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	return task, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task   domain.Task
		status string
	)

	err := row.Scan(&task.ID, &task.Title, &task.Description, &status, &task.UserID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return domain.Task{}, err
	}

	task.Status = domain.TaskStatus(status)

	return task, nil
}
