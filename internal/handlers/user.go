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

// UserService is the account API consumed by the /users routes.
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (services.Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, in services.ProfileInput) (services.Profile, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error
	ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	AddAddress(ctx context.Context, userID primitive.ObjectID, in services.AddressInput) (models.Address, error)
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, in services.AddressUpdateInput) (models.Address, error)
	SetDefaultAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (models.Address, error)
	DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error
	GetDashboard(ctx context.Context, userID primitive.ObjectID) (services.Dashboard, error)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func GetProfile(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/profile"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := svc.GetProfile(ctx, identity.UserID)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func UpdateProfile(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/profile"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		var req services.ProfileInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := svc.UpdateProfile(ctx, identity.UserID, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// ChangePassword does not require both fields at the binding layer; the
// service reports which one is missing.
func ChangePassword(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/password"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		var req changePasswordRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.ChangePassword(ctx, identity.UserID, req.OldPassword, req.NewPassword); err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func GetUserAddresses(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/addresses"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		addresses, err := svc.ListAddresses(ctx, identity.UserID)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": addresses})
	}
}

func CreateUserAddress(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/addresses"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		var req services.AddressInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		address, err := svc.AddAddress(ctx, identity.UserID, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

func UpdateUserAddress(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/addresses/:addressId"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		var req services.AddressUpdateInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		address, err := svc.UpdateAddress(ctx, identity.UserID, c.Param("addressId"), req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

func DeleteUserAddress(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /users/addresses/:addressId"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.DeleteAddress(ctx, identity.UserID, c.Param("addressId")); err != nil {
			problem.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func SetDefaultUserAddress(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /users/addresses/:addressId/default"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		address, err := svc.SetDefaultAddress(ctx, identity.UserID, c.Param("addressId"))
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

func GetDashboard(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/dashboard"
		defer handlePanic(c, route)

		identity, ok := currentIdentity(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		dashboard, err := svc.GetDashboard(ctx, identity.UserID)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}
