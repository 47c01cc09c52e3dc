// Package services implements the storefront and back-office use cases on
// top of the Mongo repositories. Every error leaving this package is a
// *problem.Problem.
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd store.ProfileUpdate) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
	ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	CountAddresses(ctx context.Context, userID primitive.ObjectID) (int64, error)
	AddAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) (models.Address, error)
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, patch store.AddressPatch) (models.Address, error)
	SetDefaultAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (models.Address, error)
	DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error
}

type OrderStore interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}

type ProductStore interface {
	List(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindPublishedBySlug(ctx context.Context, slug string) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error)
}

type BrandStore interface {
	List(ctx context.Context) ([]models.Brand, error)
	Create(ctx context.Context, brand *models.Brand) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Brand, error)
}

type CartStore interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (models.CartItem, error)
	Delete(ctx context.Context, userID, itemID primitive.ObjectID) error
}

// storeFailure maps a repository error to a Problem. notFound is the title
// used when the record does not exist.
func storeFailure(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return problem.NotFound(notFound).WithCause(err)
	case errors.Is(err, store.ErrDuplicate):
		return problem.Conflict("Conflict", "A record with the same unique value already exists").WithCause(err)
	default:
		return problem.Internal("", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// parseID reads a hex object id from a path segment. Malformed ids cannot
// exist, so they are reported as not found.
func parseID(raw, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, problem.NotFound(notFound)
	}
	return id, nil
}
