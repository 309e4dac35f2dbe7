package port

import "context"

// Store bundles the repositories of one database backend.
type Store interface {
	Tasks() TaskRepository
	Users() UserRepository
	Ping(ctx context.Context) error
	Close() error
}
