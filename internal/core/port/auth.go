package port

import (
	"context"

	"taskboard/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, cmd domain.RegisterCommand) (domain.User, error)
	Authenticate(ctx context.Context, email string, password string) (domain.User, error)
	CurrentUser(ctx context.Context, id string) (domain.User, error)
}

// TokenIssuer mints bearer credentials for an authenticated user.
type TokenIssuer interface {
	CreateToken(userID string) (string, error)
}

// TokenVerifier resolves a bearer credential to the owning user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}
