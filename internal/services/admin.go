package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

const defaultCurrency = "AMD"

type VariantInput struct {
	SKU     string                 `json:"sku"`
	Price   float64                `json:"price"`
	Stock   int                    `json:"stock"`
	Options []models.VariantOption `json:"options"`
}

type ProductInput struct {
	Title          string         `json:"title" binding:"required"`
	Slug           string         `json:"slug"`
	SKU            string         `json:"sku"`
	Description    string         `json:"description"`
	Price          *float64       `json:"price" binding:"required"`
	CompareAtPrice *float64       `json:"compareAtPrice"`
	Currency       string         `json:"currency"`
	Stock          int            `json:"stock"`
	Published      *bool          `json:"published"`
	BrandID        string         `json:"brandId"`
	CategoryIDs    []string       `json:"categoryIds"`
	Images         []string       `json:"images"`
	Variants       []VariantInput `json:"variants"`
}

type CategoryInput struct {
	Title    string `json:"title" binding:"required"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"isActive"`
}

type BrandInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// AdminService backs the back-office catalog routes.
type AdminService struct {
	products   ProductStore
	categories CategoryStore
	brands     BrandStore
}

func NewAdminService(products ProductStore, categories CategoryStore, brands BrandStore) *AdminService {
	return &AdminService{products: products, categories: categories, brands: brands}
}

// ListProducts returns one page of non-deleted products, published or not.
func (s *AdminService) ListProducts(ctx context.Context, f store.ProductFilter) (ProductPage, error) {
	f.PublishedOnly = false
	return listProducts(ctx, s.products, f)
}

func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Product{}, problem.Validation("title is required")
	}
	if in.Price == nil {
		return models.Product{}, problem.Validation("price is required")
	}
	if err := validatePricing(*in.Price, in.CompareAtPrice); err != nil {
		return models.Product{}, problem.Validation(err.Error())
	}
	if in.Stock < 0 {
		return models.Product{}, problem.Validation("stock must be zero or greater")
	}

	variants := make([]models.Variant, 0, len(in.Variants))
	for i, v := range in.Variants {
		if v.Price < 0 {
			return models.Product{}, problem.Validation(fmt.Sprintf("variants[%d].price must be zero or greater", i))
		}
		if v.Stock < 0 {
			return models.Product{}, problem.Validation(fmt.Sprintf("variants[%d].stock must be zero or greater", i))
		}
		variants = append(variants, models.Variant{
			SKU:     strings.TrimSpace(v.SKU),
			Price:   v.Price,
			Stock:   v.Stock,
			Options: v.Options,
		})
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return models.Product{}, problem.Validation("slug could not be derived from title")
	}

	categories, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return models.Product{}, err
	}
	brand, err := s.resolveBrand(ctx, in.BrandID)
	if err != nil {
		return models.Product{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	product := models.Product{
		Title:          title,
		Slug:           slug,
		SKU:            strings.TrimSpace(in.SKU),
		Description:    strings.TrimSpace(in.Description),
		Price:          *in.Price,
		CompareAtPrice: in.CompareAtPrice,
		Currency:       currency,
		Stock:          in.Stock,
		Published:      in.Published != nil && *in.Published,
		Brand:          brand,
		Categories:     categories,
		Variants:       variants,
		Images:         models.StringList(nonBlank(in.Images)),
	}
	product.InStock = product.Stock > 0
	for _, v := range product.Variants {
		if v.Stock > 0 {
			product.InStock = true
		}
	}

	if err := s.products.Create(ctx, &product); err != nil {
		return models.Product{}, storeFailure(err, productNotFound)
	}

	zap.L().Info("[ADMIN] product created", zap.String("productId", product.ID.Hex()), zap.String("slug", product.Slug))
	return product, nil
}

// DeleteProduct soft-deletes a product; it disappears from every listing.
func (s *AdminService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, productNotFound)
	if err != nil {
		return err
	}
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return storeFailure(err, productNotFound)
	}
	zap.L().Info("[ADMIN] product deleted", zap.String("productId", id.Hex()))
	return nil
}

// resolveCategories turns category ids into embedded refs, keeping the
// input order and dropping duplicates.
func (s *AdminService) resolveCategories(ctx context.Context, rawIDs []string) ([]models.CategoryRef, error) {
	seen := map[primitive.ObjectID]struct{}{}
	ordered := make([]primitive.ObjectID, 0, len(rawIDs))

	for _, raw := range rawIDs {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, problem.Validation("invalid category id: " + value)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}

	refs := make([]models.CategoryRef, 0, len(ordered))
	if len(ordered) == 0 {
		return refs, nil
	}

	found, err := s.categories.FindByIDs(ctx, ordered)
	if err != nil {
		return nil, storeFailure(err, "Category not found")
	}
	for _, id := range ordered {
		cat, ok := found[id]
		if !ok {
			return nil, problem.Validation("category not found: " + id.Hex())
		}
		refs = append(refs, cat.Ref())
	}
	return refs, nil
}

func (s *AdminService) resolveBrand(ctx context.Context, rawID string) (*models.BrandRef, error) {
	value := strings.TrimSpace(rawID)
	if value == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, problem.Validation("invalid brand id: " + value)
	}
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, problem.Validation("brand not found: " + value)
		}
		return nil, storeFailure(err, "Brand not found")
	}
	ref := brand.Ref()
	return &ref, nil
}

// ListCategories returns every category, active or not.
func (s *AdminService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, storeFailure(err, "Category not found")
	}
	return categories, nil
}

func (s *AdminService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Category{}, problem.Validation("title is required")
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return models.Category{}, problem.Validation("slug could not be derived from title")
	}

	category := models.Category{
		Title:    title,
		Slug:     slug,
		IsActive: in.IsActive == nil || *in.IsActive,
	}
	if err := s.categories.Create(ctx, &category); err != nil {
		return models.Category{}, storeFailure(err, "Category not found")
	}
	return category, nil
}

func (s *AdminService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.brands.List(ctx)
	if err != nil {
		return nil, storeFailure(err, "Brand not found")
	}
	return brands, nil
}

func (s *AdminService) CreateBrand(ctx context.Context, in BrandInput) (models.Brand, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Brand{}, problem.Validation("name is required")
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return models.Brand{}, problem.Validation("slug could not be derived from name")
	}

	brand := models.Brand{Name: name, Slug: slug}
	if err := s.brands.Create(ctx, &brand); err != nil {
		return models.Brand{}, storeFailure(err, "Brand not found")
	}
	return brand, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
