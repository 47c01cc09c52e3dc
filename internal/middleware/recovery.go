package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/problem"
)

// Recovery turns a panic into a 500 problem response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("[HTTP] panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				problem.Respond(c, problem.Internal("", fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
