package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AKhanjyan/WhiteShopML/internal/problem"
)

/*
GET /categories
- Active categories only
*/
func GetCategories(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
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
