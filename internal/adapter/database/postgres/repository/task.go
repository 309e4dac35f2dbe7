package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskboard/internal/adapter/database/postgres"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	tel "taskboard/internal/core/telemetry"
)

const tasksTable = "tasks"

var taskColumns = []string{"uuid::text", "title", "description", "status", "user_id", "created_at", "updated_at"}

type TaskRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *postgres.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{db: db, telemetry: telemetry}
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

	rows, err := r.db.Query(ctx, query, args...)

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

	query, args, err := r.db.QueryBuilder.Insert(tasksTable).
		Columns("uuid", "title", "description", "status", "user_id", "created_at", "updated_at").
		Values(uuid.NewString(), task.Title, task.Description, task.Status.String(), task.UserID, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING uuid::text, title, description, status, user_id, created_at, updated_at").
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(r.db.QueryRow(ctx, query, args...))
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, userID string, id string, status domain.TaskStatus) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "UpdateStatus", "task")
	defer func() { done(err) }()

	return r.update(ctx, userID, id, status.String())
}

// ToggleStatus flips the status inside a single UPDATE statement.
func (r *TaskRepository) ToggleStatus(ctx context.Context, userID string, id string) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "ToggleStatus", "task")
	defer func() { done(err) }()

	flip := sq.Expr("CASE WHEN status = ? THEN ? ELSE ? END",
		domain.TaskStatusDone.String(), domain.TaskStatusPending.String(), domain.TaskStatusDone.String())

	return r.update(ctx, userID, id, flip)
}

func (r *TaskRepository) Delete(ctx context.Context, userID string, id string) (err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Delete", "task")
	defer func() { done(err) }()

	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrTaskNotFound
	}

	query, args, err := r.db.QueryBuilder.Delete(tasksTable).
		Where(sq.Eq{"uuid": id, "user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) update(ctx context.Context, userID string, id string, status any) (domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	query, args, err := r.db.QueryBuilder.Update(tasksTable).
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"uuid": id, "user_id": userID}).
		Suffix("RETURNING uuid::text, title, description, status, user_id, created_at, updated_at").
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(r.db.QueryRow(ctx, query, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	return task, err
}

func scanTask(row pgx.Row) (domain.Task, error) {
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
