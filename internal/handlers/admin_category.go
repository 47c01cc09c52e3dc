package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/services"
)

/*
GET /admin/categories
- Active and inactive categories
*/
func GetAllCategories(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/categories"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		categories, err := svc.ListCategories(ctx)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
POST /admin/categories
- Slug is unique
*/
func CreateCategory(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/categories"
		defer handlePanic(c, route)

		var req services.CategoryInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		category, err := svc.CreateCategory(ctx, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func GetAllBrands(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/brands"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		brands, err := svc.ListBrands(ctx)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": brands})
	}
}

func CreateBrand(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/brands"
		defer handlePanic(c, route)

		var req services.BrandInput
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		brand, err := svc.CreateBrand(ctx, req)
		if err != nil {
			problem.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, brand)
	}
}
