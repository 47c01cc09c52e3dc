package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/auth"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(raw string) (auth.Identity, error)
}

// Authenticate resolves the bearer token into an Identity stored on the
// context. Missing or invalid tokens are rejected with 401.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.FromHeader(c.GetHeader("Authorization"))
		if err != nil {
			detail := "Invalid authorization header"
			if errors.Is(err, auth.ErrMissingToken) {
				detail = "Authentication token required"
			}
			problem.Respond(c, problem.Unauthorized("Unauthorized", detail).WithCause(err))
			return
		}

		identity, err := tokens.Parse(raw)
		if err != nil {
			zap.L().Info("[AUTH] token rejected", zap.Error(err))
			problem.Respond(c, problem.Unauthorized("Unauthorized", "Invalid or expired token").WithCause(err))
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// RequireAdmin rejects authenticated callers without the admin role. It
// must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			problem.Respond(c, problem.Unauthorized("Unauthorized", "Authentication token required"))
			return
		}
		if !identity.IsAdmin() {
			zap.L().Info("[AUTH] admin access denied", zap.String("userId", identity.UserID.Hex()))
			problem.Respond(c, problem.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}
