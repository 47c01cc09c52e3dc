package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/services"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (services.AuthResult, error)
}

func Register(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req services.RegisterInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := svc.Register(ctx, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

func Login(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req services.LoginInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := svc.Login(ctx, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
