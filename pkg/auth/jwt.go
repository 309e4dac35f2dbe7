package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/core/domain"
)

const (
	DefaultTTL   = 24 * time.Hour
	bearerPrefix = "Bearer "
)

var ErrMissingBearer = errors.New("missing bearer token")

// JWT issues and verifies HS256 tokens carrying a user_id claim.
type JWT struct {
	Secret string
	TTL    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &JWT{Secret: secret, TTL: ttl}
}

func (j *JWT) CreateToken(userID string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(j.TTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

// VerifyToken returns the user id of a valid token and domain.ErrInvalidToken otherwise.
func (j *JWT) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)

	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing user_id claim", domain.ErrInvalidToken)
	}

	return userID, nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingBearer
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return "", domain.ErrInvalidToken
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	if token == "" {
		return "", domain.ErrInvalidToken
	}

	return token, nil
}
