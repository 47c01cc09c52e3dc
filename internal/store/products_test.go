package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildProductFilterDefaults(t *testing.T) {
	got := BuildProductFilter(ProductFilter{Page: 1, Limit: 20})
	want := bson.M{"isDeleted": bson.M{"$ne": true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildProductFilterPriceBoundsAreInclusive(t *testing.T) {
	got := BuildProductFilter(ProductFilter{MinPrice: floatPtr(10), MaxPrice: floatPtr(50)})
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 50.0}, got["price"])

	onlyMin := BuildProductFilter(ProductFilter{MinPrice: floatPtr(0)})
	assert.Equal(t, bson.M{"$gte": 0.0}, onlyMin["price"])
}

func TestBuildProductFilterEscapesSearch(t *testing.T) {
	got := BuildProductFilter(ProductFilter{Search: "  a.b(c)* "})

	or, ok := got["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)
	assert.Equal(t, bson.M{"title": bson.M{"$regex": `a\.b\(c\)\*`, "$options": "i"}}, or[0])
	assert.Equal(t, bson.M{"brand.name": bson.M{"$regex": `a\.b\(c\)\*`, "$options": "i"}}, or[2])
}

func TestBuildProductFilterCategory(t *testing.T) {
	bySlug := BuildProductFilter(ProductFilter{Category: "shoes"})
	assert.Equal(t, bson.M{"$elemMatch": bson.M{"slug": "shoes"}}, bySlug["categories"])

	id := primitive.NewObjectID()
	byID := BuildProductFilter(ProductFilter{Category: id.Hex()})
	assert.Equal(t, bson.M{"$elemMatch": bson.M{"$or": bson.A{
		bson.M{"id": id},
		bson.M{"slug": id.Hex()},
	}}}, byID["categories"])
}

func TestBuildProductFilterStorefront(t *testing.T) {
	exclude := primitive.NewObjectID()
	got := BuildProductFilter(ProductFilter{PublishedOnly: true, Brand: "Acme+", SKU: " SKU-1 ", Exclude: &exclude})

	assert.Equal(t, true, got["published"])
	assert.Equal(t, "SKU-1", got["sku"])
	assert.Equal(t, bson.M{"$regex": `^Acme\+$`, "$options": "i"}, got["brand.name"])
	assert.Equal(t, bson.M{"$ne": exclude}, got["_id"])
}

func TestValidSort(t *testing.T) {
	for _, key := range []string{"", SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc} {
		assert.True(t, ValidSort(key), key)
	}
	assert.False(t, ValidSort("price"))
	assert.False(t, ValidSort("createdAt-DESC"))
}

func TestNormalizeProductDocument(t *testing.T) {
	id := primitive.NewObjectID()
	p, err := normalizeProductDocument(bson.M{
		"_id":       id,
		"title":     "Mug",
		"stock":     "3",
		"published": "TRUE",
		"images":    "mug.png",
	})
	require.NoError(t, err)

	assert.Equal(t, id, p.ID)
	assert.Equal(t, 3, p.Stock)
	assert.True(t, p.Published)
	assert.True(t, p.InStock)
	assert.Equal(t, models.StringList{"mug.png"}, p.Images)
}

func TestNormalizeProductDocumentKeepsStoredInStock(t *testing.T) {
	p, err := normalizeProductDocument(bson.M{"title": "Mug", "stock": int32(5), "inStock": false})
	require.NoError(t, err)
	assert.False(t, p.InStock)

	p, err = normalizeProductDocument(bson.M{
		"title":    "Shirt",
		"variants": bson.A{bson.M{"sku": "S", "price": 1.0, "stock": int32(2)}},
	})
	require.NoError(t, err)
	assert.True(t, p.InStock)
}

func TestProductsStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list returns page and total", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".products"
		first := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "A"}, {Key: "price", Value: 12.5}, {Key: "stock", Value: int32(1)}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "B"}, {Key: "price", Value: 40.0}},
			),
		)

		products, total, err := NewProducts(mt.DB).List(context.Background(), ProductFilter{
			Page: 2, Limit: 2, MinPrice: floatPtr(10), MaxPrice: floatPtr(50),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 7, total)
		require.Len(t, products, 2)
		assert.Equal(t, first, products[0].ID)
		assert.True(t, products[0].InStock)
		assert.False(t, products[1].InStock)
	})

	mt.Run("create maps duplicate sku", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: products index: sku_unique",
		}))

		err := NewProducts(mt.DB).Create(context.Background(), &models.Product{Title: "A", SKU: "X"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicate))
	})

	mt.Run("soft delete of missing product", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}))

		err := NewProducts(mt.DB).SoftDelete(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("find by slug not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".products", mtest.FirstBatch))

		_, err := NewProducts(mt.DB).FindPublishedBySlug(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("create sets timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		s := NewProducts(mt.DB)
		s.now = func() time.Time { return fixed }

		p := &models.Product{Title: "A", IsDeleted: true}
		require.NoError(t, s.Create(context.Background(), p))
		assert.Equal(t, fixed, p.CreatedAt)
		assert.NotNil(t, p.Categories)

		// Unique indexes only cover documents with isDeleted=false.
		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		doc := started.Command.Lookup("documents").Array().Index(0).Value().Document()
		deleted, ok := doc.Lookup("isDeleted").BooleanOK()
		require.True(t, ok)
		assert.False(t, deleted)
	})
}
