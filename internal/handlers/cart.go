package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/services"
)

type CartService interface {
	List(ctx context.Context, userID primitive.ObjectID) (services.Cart, error)
	AddItem(ctx context.Context, userID primitive.ObjectID, in services.CartItemInput) (models.CartItem, error)
	UpdateItem(ctx context.Context, userID primitive.ObjectID, itemID string, quantity int) (models.CartItem, error)
	RemoveItem(ctx context.Context, userID primitive.ObjectID, itemID string) error
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func GetCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.List(ctx, identity.UserID)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func AddCartItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		var req services.CartItemInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.AddItem(ctx, identity.UserID, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func UpdateCartItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart/items/:id"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		var req updateCartItemRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.UpdateItem(ctx, identity.UserID, c.Param("id"), *req.Quantity)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func DeleteCartItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:id"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.RemoveItem(ctx, identity.UserID, c.Param("id")); err != nil {
			problem.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
