package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/auth"
	"github.com/AKhanjyan/WhiteShopML/internal/config"
	"github.com/AKhanjyan/WhiteShopML/internal/middleware"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
)

const defaultRequestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		zap.L().Error("[HANDLER] panic recovered", zap.String("route", route), zap.Any("panic", r), zap.Stack("stack"))
		problem.Respond(c, problem.Internal("", fmt.Errorf("%s: panic: %v", route, r)))
	}
}

// requestContext bounds store work by the configured request timeout.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := config.AppEnv.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// currentIdentity returns the authenticated caller or writes a 401.
func currentIdentity(c *gin.Context, route string) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		zap.L().Error("[AUTH] identity missing in context", zap.String("route", route))
		problem.Respond(c, problem.Unauthorized("Unauthorized", "Authentication token required"))
		return auth.Identity{}, false
	}
	return identity, true
}

// bindJSON decodes the request body into dst or writes a 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		problem.Respond(c, problem.FromBinding(err))
		return false
	}
	return true
}
