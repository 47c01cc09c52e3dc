package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/services"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

type CatalogService interface {
	ListProducts(ctx context.Context, f store.ProductFilter) (services.ProductPage, error)
	GetProduct(ctx context.Context, slug string) (models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

/*
GET /products
- Published products only
- exclude=<id> skips one product (related products)
*/
func GetProducts(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
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
		c.JSON(http.StatusOK, page)
	}
}

func GetProductBySlug(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:slug"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := svc.GetProduct(ctx, c.Param("slug"))
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
