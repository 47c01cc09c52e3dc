package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	var page, limit int64

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("page must be an integer")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
		limit = l
	}

	return page, limit, nil
}

func parsePrice(name, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// parseProductFilter reads the listing query string. Range checks on the
// parsed values happen in the services.
func parseProductFilter(c *gin.Context) (store.ProductFilter, error) {
	page, limit, err := parsePaginationParams(strings.TrimSpace(c.Query("page")), strings.TrimSpace(c.Query("limit")))
	if err != nil {
		return store.ProductFilter{}, problem.Validation(err.Error())
	}
	minPrice, err := parsePrice("minPrice", strings.TrimSpace(c.Query("minPrice")))
	if err != nil {
		return store.ProductFilter{}, problem.Validation(err.Error())
	}
	maxPrice, err := parsePrice("maxPrice", strings.TrimSpace(c.Query("maxPrice")))
	if err != nil {
		return store.ProductFilter{}, problem.Validation(err.Error())
	}

	f := store.ProductFilter{
		Page:     page,
		Limit:    limit,
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		SKU:      c.Query("sku"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     strings.TrimSpace(c.Query("sort")),
	}

	if raw := strings.TrimSpace(c.Query("exclude")); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return store.ProductFilter{}, problem.Validation("exclude must be a product id")
		}
		f.Exclude = &id
	}
	return f, nil
}
