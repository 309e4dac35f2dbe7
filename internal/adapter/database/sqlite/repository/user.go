package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskboard/internal/adapter/database/sqlite"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	tel "taskboard/internal/core/telemetry"
)

const usersTable = "users"

var userColumns = []string{"uuid", "name", "email", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (_ domain.User, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "GetByID", "user")
	defer func() { done(err) }()

	return r.getBy(ctx, sq.Eq{"uuid": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (_ domain.User, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "GetByEmail", "user")
	defer func() { done(err) }()

	return r.getBy(ctx, sq.Eq{"email": email})
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (_ domain.User, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Create", "user")
	defer func() { done(err) }()

	user.ID = uuid.NewString()

	query, args, err := r.db.QueryBuilder.Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if sqlite.IsUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, user.Email)
		}

		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) getBy(ctx context.Context, where sq.Eq) (domain.User, error) {
	query, args, err := r.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var user domain.User

	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.EncryptedPassword, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
