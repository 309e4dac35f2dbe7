package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	"taskboard/internal/core/util"
)

const authServiceName = "auth"

type AuthService struct {
	repo  port.UserRepository
	probe port.Telemetry
}

func NewAuthService(repo port.UserRepository, probe port.Telemetry) *AuthService {
	return &AuthService{
		repo:  repo,
		probe: probe,
	}
}

func (s *AuthService) Register(ctx context.Context, cmd domain.RegisterCommand) (domain.User, error) {
	start := time.Now()
	ctx, span := s.probe.StartServiceSpan(ctx, authServiceName, "Register", "", nil)

	user, err := s.register(ctx, cmd)
	s.probe.RecordServiceOperation(ctx, authServiceName, "Register", user.ID, time.Since(start), err)
	finishSpan(ctx, s.probe, span, "Auth#Register", err, nil)

	if err != nil {
		return domain.User{}, err
	}

	s.probe.RecordBusinessEvent(ctx, "user.registered", "user", user.ID, user.ID, nil)

	return user, nil
}

func (s *AuthService) register(ctx context.Context, cmd domain.RegisterCommand) (domain.User, error) {
	cmd, err := cmd.Validate()

	if err != nil {
		return domain.User{}, err
	}

	email := domain.NormalizeEmail(cmd.Email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	encrypted, err := util.HashPassword(cmd.Password)

	if domain.IsValidationError(err) {
		return domain.User{}, err
	}

	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()

	user := domain.User{
		Name:              cmd.Name,
		Email:             email,
		EncryptedPassword: encrypted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// the unique email index still guards concurrent registrations
	return s.repo.Create(ctx, user)
}

// Authenticate returns domain.ErrInvalidCredentials for both an unknown email
// and a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email string, password string) (domain.User, error) {
	start := time.Now()
	ctx, span := s.probe.StartServiceSpan(ctx, authServiceName, "Authenticate", "", nil)

	user, err := s.authenticate(ctx, email, password)
	s.probe.RecordServiceOperation(ctx, authServiceName, "Authenticate", user.ID, time.Since(start), err)
	finishSpan(ctx, s.probe, span, "Auth#Authenticate", err, nil)

	return user, err
}

func (s *AuthService) authenticate(ctx context.Context, email string, password string) (domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))

	if errors.Is(err, domain.ErrUserNotFound) {
		slog.InfoContext(ctx, "Auth#Authenticate", "reason", "unknown email")
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err != nil {
		return domain.User{}, err
	}

	ok, err := util.ComparePassword(password, user.EncryptedPassword)

	if err != nil {
		return domain.User{}, fmt.Errorf("compare password: %w", err)
	}

	if !ok {
		slog.InfoContext(ctx, "Auth#Authenticate", "reason", "password mismatch", "user_id", user.ID)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
