package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"taskboard/internal/adapter/http/helper"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	"taskboard/pkg/auth"
	ct "taskboard/pkg/context"
)

// UserIDKey is the gin context key holding the resolved owner id.
const UserIDKey = "x-user-id"

// JwtMiddleware requires a valid bearer token on every request.
func JwtMiddleware(verifier port.TokenVerifier) gin.HandlerFunc {
	return jwtMiddleware(verifier, true)
}

// OptionalJwtMiddleware resolves a bearer token when one is sent and lets
// anonymous requests through as domain.AnonymousOwner. A token that is sent
// but invalid is still rejected.
func OptionalJwtMiddleware(verifier port.TokenVerifier) gin.HandlerFunc {
	return jwtMiddleware(verifier, false)
}

func jwtMiddleware(verifier port.TokenVerifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ParseBearer(c.GetHeader("Authorization"))

		if errors.Is(err, auth.ErrMissingBearer) {
			if required {
				helper.SendUnauthorizedError(c, helper.MessageNoToken)
				return
			}

			setUser(c, domain.AnonymousOwner)
			c.Next()
			return
		}

		if err != nil {
			helper.SendUnauthorizedError(c, helper.MessageInvalidToken)
			return
		}

		userID, err := verifier.VerifyToken(token)

		if err != nil {
			helper.SendUnauthorizedError(c, helper.MessageInvalidToken)
			return
		}

		setUser(c, userID)
		c.Next()
	}
}

func setUser(c *gin.Context, userID string) {
	c.Set(UserIDKey, userID)
	ct.FromContext(c.Request.Context()).Set(ct.UserIDKey, userID)
}

// CurrentUserID returns the owner resolved by the auth middleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
