package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

// UserLookup loads the stored account behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// ActiveAccount reloads the caller's account after Authenticate. Removed
// accounts get 401, blocked ones 403. Roles on the identity are replaced
// with the stored roles so revocations apply before the token expires.
func ActiveAccount(users UserLookup, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			problem.Respond(c, problem.Unauthorized("Unauthorized", "Authentication token required"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		user, err := users.FindByID(ctx, identity.UserID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			zap.L().Info("[AUTH] token for missing account", zap.String("userId", identity.UserID.Hex()))
			problem.Respond(c, problem.Unauthorized("Unauthorized", "Account no longer exists").WithCause(err))
			return
		case err != nil:
			problem.Respond(c, problem.Internal("", err))
			return
		case user.Blocked:
			zap.L().Info("[AUTH] blocked account rejected", zap.String("userId", identity.UserID.Hex()))
			problem.Respond(c, problem.Forbidden("Account is blocked"))
			return
		}

		identity.Email = user.Email
		identity.Roles = append([]string(nil), user.Roles...)
		SetIdentity(c, identity)
		c.Next()
	}
}
