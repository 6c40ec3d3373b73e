package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/internal/auth"
	"github.com/dorincreciun/go-pizza-api/internal/httpx"
	"github.com/dorincreciun/go-pizza-api/internal/token"
)

const currentUserKey = "currentUser"

// UserValidator resolves a token subject to the current user.
type UserValidator interface {
	ValidateUserByID(ctx context.Context, userID string) (*auth.UserResponse, error)
}

// Auth verifies the bearer access token and attaches the current user to
// the request context. Public routes simply do not get wrapped.
func Auth(tokens token.TokenService, sessions UserValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			httpx.Error(c, log, httpx.Unauthorized("missing bearer token"))
			return
		}

		claims, err := tokens.ParseAccessToken(raw)
		if err != nil {
			httpx.Error(c, log, httpx.Unauthorized("invalid or expired token"))
			return
		}

		u, err := sessions.ValidateUserByID(c.Request.Context(), claims.Subject)
		if err != nil {
			httpx.Error(c, log, err)
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// AdminOnly rejects requests whose current user is not an administrator.
// Must run after Auth.
func AdminOnly(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			httpx.Error(c, log, httpx.Forbidden("access denied"))
			return
		}
		if u.Role != "ADMIN" {
			httpx.Error(c, log, httpx.Forbidden("only administrators can perform this action"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c *gin.Context) (*auth.UserResponse, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*auth.UserResponse)
	return u, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
