package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/services"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

// AdminService is the back-office catalog API.
type AdminService interface {
	ListProducts(ctx context.Context, f store.ProductFilter) (services.ProductPage, error)
	CreateProduct(ctx context.Context, in services.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in services.CategoryInput) (models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateBrand(ctx context.Context, in services.BrandInput) (models.Brand, error)
}

/*
GET /admin/products
- page, limit, search, category, sku, minPrice, maxPrice, sort
- Soft-deleted products are never listed
*/
func GetAllProducts(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products"
		defer handlePanic(c, route)

		filter, err := parseProductFilter(c)
		if err != nil {
			problem.Respond(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := svc.ListProducts(ctx, filter)
		if err != nil {
			problem.Respond(c, err)
			return
		}

		zap.L().Debug("[ADMIN] products listed",
			zap.Int64("total", page.Meta.Total),
			zap.Int64("page", page.Meta.Page),
			zap.Int64("limit", page.Meta.Limit),
		)
		c.JSON(http.StatusOK, page)
	}
}

func CreateProduct(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products"
		defer handlePanic(c, route)

		var req services.ProductInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := svc.CreateProduct(ctx, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

/*
DELETE /admin/products/:id
- Soft delete
*/
func DeleteProduct(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/products/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.DeleteProduct(ctx, c.Param("id")); err != nil {
			problem.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
