package services

import (
	"context"
	"math"
	"strings"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	productNotFound = "Product not found"
)

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(limit)))
}

// checkProductFilter fills paging defaults and rejects out-of-range values.
func checkProductFilter(f store.ProductFilter) (store.ProductFilter, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageLimit
	}
	switch {
	case f.Page < 1:
		return f, problem.Validation("page must be at least 1")
	case f.Limit < 1:
		return f, problem.Validation("limit must be at least 1")
	case f.Limit > MaxPageLimit:
		return f, problem.Validation("limit must be at most 100")
	case f.Page > math.MaxInt64/f.Limit:
		return f, problem.Validation("page is too large")
	case f.MinPrice != nil && *f.MinPrice < 0:
		return f, problem.Validation("minPrice must be at least 0")
	case f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice:
		return f, problem.Validation("minPrice must not exceed maxPrice")
	case !store.ValidSort(f.Sort):
		return f, problem.Validation("sort must be one of [createdAt-desc createdAt-asc price-asc price-desc title-asc title-desc]")
	}
	return f, nil
}

func listProducts(ctx context.Context, products ProductStore, f store.ProductFilter) (ProductPage, error) {
	f, err := checkProductFilter(f)
	if err != nil {
		return ProductPage{}, err
	}

	items, total, err := products.List(ctx, f)
	if err != nil {
		return ProductPage{}, storeFailure(err, productNotFound)
	}
	return ProductPage{
		Data: items,
		Meta: PageMeta{Total: total, Page: f.Page, Limit: f.Limit, TotalPages: totalPages(total, f.Limit)},
	}, nil
}

// CatalogService serves the public storefront. Only published products
// and active categories are visible.
type CatalogService struct {
	products   ProductStore
	categories CategoryStore
}

func NewCatalogService(products ProductStore, categories CategoryStore) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

func (s *CatalogService) ListProducts(ctx context.Context, f store.ProductFilter) (ProductPage, error) {
	f.PublishedOnly = true
	return listProducts(ctx, s.products, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return models.Product{}, problem.NotFound(productNotFound)
	}
	p, err := s.products.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return models.Product{}, storeFailure(err, productNotFound)
	}
	return p, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx, true)
	if err != nil {
		return nil, storeFailure(err, "Category not found")
	}
	return categories, nil
}
