package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

func price(v float64) *float64 { return &v }

func newAdmin() (*AdminService, *mockProductStore, *mockCategoryStore, *mockBrandStore) {
	p, c, b := &mockProductStore{}, &mockCategoryStore{}, &mockBrandStore{}
	return NewAdminService(p, c, b), p, c, b
}

func TestAdminListProductsMeta(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		total, limit, pages int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{95, 10, 10},
	} {
		t.Run(fmt.Sprintf("%d/%d", tc.total, tc.limit), func(t *testing.T) {
			svc, products, _, _ := newAdmin()
			products.On("List", ctx, mock.MatchedBy(func(f store.ProductFilter) bool {
				return !f.PublishedOnly && f.Page == 1 && f.Limit == tc.limit
			})).Return([]models.Product{}, tc.total, nil)

			page, err := svc.ListProducts(ctx, store.ProductFilter{Limit: tc.limit})
			require.NoError(t, err)
			assert.Equal(t, PageMeta{Total: tc.total, Page: 1, Limit: tc.limit, TotalPages: tc.pages}, page.Meta)
		})
	}
}

func TestAdminListProductsForwardsPriceRange(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newAdmin()

	inRange := []models.Product{{Title: "a", Price: 10}, {Title: "b", Price: 50}}
	products.On("List", ctx, mock.MatchedBy(func(f store.ProductFilter) bool {
		return *f.MinPrice == 10 && *f.MaxPrice == 50 && f.Limit == DefaultPageLimit
	})).Return(inRange, int64(2), nil)

	page, err := svc.ListProducts(ctx, store.ProductFilter{MinPrice: price(10), MaxPrice: price(50)})
	require.NoError(t, err)
	for _, p := range page.Data {
		assert.GreaterOrEqual(t, p.Price, 10.0)
		assert.LessOrEqual(t, p.Price, 50.0)
	}
	assert.EqualValues(t, 1, page.Meta.TotalPages)
}

func TestAdminListProductsRejectsBadFilters(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newAdmin()

	for name, f := range map[string]store.ProductFilter{
		"negative page":   {Page: -1},
		"limit too large": {Limit: 101},
		"inverted range":  {MinPrice: price(50), MaxPrice: price(10)},
		"negative min":    {MinPrice: price(-1)},
		"unknown sort":    {Sort: "popularity"},
		"page overflows":  {Page: math.MaxInt64, Limit: 20},
		"default limit":   {Page: math.MaxInt64 / 10},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ListProducts(ctx, f)
			requireProblem(t, err, 400, problem.TypeValidation)
		})
	}
	products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAdminCreateProduct(t *testing.T) {
	ctx := context.Background()
	catID := primitive.NewObjectID()
	brandID := primitive.NewObjectID()

	svc, products, categories, brands := newAdmin()
	categories.On("FindByIDs", ctx, []primitive.ObjectID{catID}).Return(map[primitive.ObjectID]models.Category{
		catID: {ID: catID, Title: "Shoes", Slug: "shoes"},
	}, nil)
	brands.On("FindByID", ctx, brandID).Return(models.Brand{ID: brandID, Name: "Acme"}, nil)
	products.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil)

	got, err := svc.CreateProduct(ctx, ProductInput{
		Title:          "  Ténnis Shoe ",
		Price:          price(40),
		CompareAtPrice: price(55),
		CategoryIDs:    []string{catID.Hex(), catID.Hex(), " "},
		BrandID:        brandID.Hex(),
		Variants:       []VariantInput{{SKU: "T-42", Price: 40, Stock: 3}},
		Images:         []string{"", "a.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ténnis Shoe", got.Title)
	assert.Equal(t, "tennis-shoe", got.Slug)
	assert.Equal(t, "AMD", got.Currency)
	assert.True(t, got.InStock)
	assert.False(t, got.Published)
	assert.Equal(t, []models.CategoryRef{{ID: catID, Slug: "shoes", Title: "Shoes"}}, got.Categories)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Acme", got.Brand.Name)
	assert.Equal(t, models.StringList{"a.png"}, got.Images)
}

func TestAdminCreateProductValidation(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		in     ProductInput
		detail string
	}{
		"blank title":        {ProductInput{Title: " ", Price: price(1)}, "title is required"},
		"missing price":      {ProductInput{Title: "x"}, "price is required"},
		"negative price":     {ProductInput{Title: "x", Price: price(-1)}, "price must be zero or greater"},
		"compare below":      {ProductInput{Title: "x", Price: price(10), CompareAtPrice: price(10)}, "compareAtPrice must be greater than price"},
		"negative stock":     {ProductInput{Title: "x", Price: price(1), Stock: -1}, "stock must be zero or greater"},
		"bad variant price":  {ProductInput{Title: "x", Price: price(1), Variants: []VariantInput{{}, {Price: -2}}}, "variants[1].price must be zero or greater"},
		"bad category id":    {ProductInput{Title: "x", Price: price(1), CategoryIDs: []string{"zzz"}}, "invalid category id: zzz"},
		"unslugifiable name": {ProductInput{Title: "!!!", Price: price(1)}, "slug could not be derived from title"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			svc, products, _, _ := newAdmin()
			_, err := svc.CreateProduct(ctx, tc.in)
			p := requireProblem(t, err, 400, problem.TypeValidation)
			assert.Equal(t, tc.detail, p.Detail)
			products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAdminCreateProductUnknownRefs(t *testing.T) {
	ctx := context.Background()
	catID := primitive.NewObjectID()
	brandID := primitive.NewObjectID()

	svc, _, categories, brands := newAdmin()
	categories.On("FindByIDs", ctx, []primitive.ObjectID{catID}).Return(map[primitive.ObjectID]models.Category{}, nil)
	_, err := svc.CreateProduct(ctx, ProductInput{Title: "x", Price: price(1), CategoryIDs: []string{catID.Hex()}})
	requireProblem(t, err, 400, problem.TypeValidation)

	brands.On("FindByID", ctx, brandID).Return(models.Brand{}, store.ErrNotFound)
	_, err = svc.CreateProduct(ctx, ProductInput{Title: "x", Price: price(1), BrandID: brandID.Hex()})
	p := requireProblem(t, err, 400, problem.TypeValidation)
	assert.Equal(t, "brand not found: "+brandID.Hex(), p.Detail)
}

func TestAdminCreateProductDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newAdmin()
	products.On("Create", ctx, mock.Anything).Return(fmt.Errorf("insert product: %w", store.ErrDuplicate))

	_, err := svc.CreateProduct(ctx, ProductInput{Title: "Mug", SKU: "M-1", Price: price(3)})
	requireProblem(t, err, 409, problem.TypeConflict)
}

func TestAdminDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newAdmin()

	requireProblem(t, svc.DeleteProduct(ctx, "not-an-id"), 404, problem.TypeNotFound)

	id := primitive.NewObjectID()
	products.On("SoftDelete", ctx, id).Return(store.ErrNotFound).Once()
	requireProblem(t, svc.DeleteProduct(ctx, id.Hex()), 404, problem.TypeNotFound)

	products.On("SoftDelete", ctx, id).Return(nil).Once()
	assert.NoError(t, svc.DeleteProduct(ctx, id.Hex()))
}

func TestAdminCategoriesAndBrands(t *testing.T) {
	ctx := context.Background()
	svc, _, categories, brands := newAdmin()

	categories.On("Create", ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Title == "Home & Garden" && c.Slug == "home-garden" && c.IsActive
	})).Return(nil)
	cat, err := svc.CreateCategory(ctx, CategoryInput{Title: "Home & Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden", cat.Slug)

	brands.On("Create", ctx, mock.Anything).Return(fmt.Errorf("insert brand: %w", store.ErrDuplicate))
	_, err = svc.CreateBrand(ctx, BrandInput{Name: "Acme"})
	requireProblem(t, err, 409, problem.TypeConflict)

	categories.On("List", ctx, false).Return([]models.Category{{Title: "Hidden"}}, nil)
	all, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
