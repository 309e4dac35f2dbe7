package repository

import (
	"context"

	"taskboard/internal/adapter/database/mongodb"
	"taskboard/internal/core/port"
)

type Store struct {
	db    *mongodb.DB
	tasks port.TaskRepository
	users port.UserRepository
}

func NewStore(db *mongodb.DB, telemetry port.Telemetry) *Store {
	return &Store{
		db:    db,
		tasks: NewTaskRepository(db, telemetry),
		users: NewUserRepository(db, telemetry),
	}
}

func (s *Store) Tasks() port.TaskRepository { return s.tasks }
func (s *Store) Users() port.UserRepository { return s.users }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
