package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/auth"
	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

type accounts struct {
	byID map[primitive.ObjectID]models.User
	err  error
}

func (a accounts) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	if a.err != nil {
		return models.User{}, a.err
	}
	user, ok := a.byID[id]
	if !ok {
		return models.User{}, fmt.Errorf("find user: %w", store.ErrNotFound)
	}
	return user, nil
}

func accountRouter(tokens *auth.Tokens, users UserLookup) *gin.Engine {
	r := gin.New()
	authed := r.Group("", Authenticate(tokens), ActiveAccount(users, time.Second))
	authed.GET("/user/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	authed.GET("/admin/ping", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestActiveAccount(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)

	active := models.User{ID: primitive.NewObjectID(), Email: "a@b.c"}
	blocked := models.User{ID: primitive.NewObjectID(), Blocked: true}
	demoted := models.User{ID: primitive.NewObjectID()}
	gone := models.User{ID: primitive.NewObjectID()}

	r := accountRouter(tokens, accounts{byID: map[primitive.ObjectID]models.User{
		active.ID:  active,
		blocked.ID: blocked,
		demoted.ID: demoted,
	}})

	issue := func(u models.User) string {
		token, err := tokens.Issue(u)
		require.NoError(t, err)
		return token
	}

	assert.Equal(t, http.StatusNoContent, do(r, "/user/me", issue(active)).Code)

	w := do(r, "/user/me", issue(blocked))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Account is blocked", decodeProblem(t, w).Detail)

	w = do(r, "/user/me", issue(gone))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Account no longer exists", decodeProblem(t, w).Detail)

	// The token still claims admin but the stored account lost the role.
	stale := demoted
	stale.Roles = []string{models.RoleAdmin}
	w = do(r, "/admin/ping", issue(stale))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", decodeProblem(t, w).Detail)
}

func TestActiveAccountLookupFailure(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := accountRouter(tokens, accounts{err: errors.New("socket closed")})

	token, err := tokens.Issue(models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	w := do(r, "/user/me", token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, problem.TypeInternal, p.Type)
	assert.NotContains(t, w.Body.String(), "socket closed")
}
