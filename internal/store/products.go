package store

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AKhanjyan/WhiteShopML/internal/database"
	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

const (
	SortNewest    = "createdAt-desc"
	SortOldest    = "createdAt-asc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortTitleAsc  = "title-asc"
	SortTitleDesc = "title-desc"
)

var sortKeys = map[string]bson.D{
	SortNewest:    {{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	SortOldest:    {{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	SortPriceAsc:  {{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
	SortPriceDesc: {{Key: "price", Value: -1}, {Key: "_id", Value: -1}},
	SortTitleAsc:  {{Key: "title", Value: 1}, {Key: "_id", Value: 1}},
	SortTitleDesc: {{Key: "title", Value: -1}, {Key: "_id", Value: -1}},
}

// ValidSort reports whether key is a known sort key. Empty is valid.
func ValidSort(key string) bool {
	if key == "" {
		return true
	}
	_, ok := sortKeys[key]
	return ok
}

// ProductFilter narrows a product listing. Page and Limit are 1-based and
// already validated by the caller.
type ProductFilter struct {
	Page          int64
	Limit         int64
	Search        string
	Category      string
	Brand         string
	SKU           string
	MinPrice      *float64
	MaxPrice      *float64
	Sort          string
	PublishedOnly bool
	Exclude       *primitive.ObjectID
}

// BuildProductFilter translates f into a Mongo query. Soft-deleted products
// never match.
func BuildProductFilter(f ProductFilter) bson.M {
	filter := bson.M{
		"isDeleted": bson.M{"$ne": true},
	}

	if f.PublishedOnly {
		filter["published"] = true
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := regexp.QuoteMeta(search)
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"sku": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"brand.name": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	if category := strings.TrimSpace(f.Category); category != "" {
		filter["categories"] = bson.M{"$elemMatch": refMatch("slug", category)}
	}

	if brand := strings.TrimSpace(f.Brand); brand != "" {
		if id, err := primitive.ObjectIDFromHex(brand); err == nil {
			filter["brand.id"] = id
		} else {
			filter["brand.name"] = bson.M{"$regex": "^" + regexp.QuoteMeta(brand) + "$", "$options": "i"}
		}
	}

	if sku := strings.TrimSpace(f.SKU); sku != "" {
		filter["sku"] = sku
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if f.Exclude != nil {
		filter["_id"] = bson.M{"$ne": *f.Exclude}
	}

	return filter
}

// refMatch matches an embedded ref either by hex id or by the given text field.
func refMatch(field, value string) bson.M {
	if id, err := primitive.ObjectIDFromHex(value); err == nil {
		return bson.M{"$or": bson.A{bson.M{"id": id}, bson.M{field: value}}}
	}
	return bson.M{field: value}
}

type Products struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{coll: db.Collection(database.ProductsCollection), now: time.Now}
}

// List returns one page of products matching f and the total match count.
func (s *Products) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	filter := BuildProductFilter(f)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrap("count products", err)
	}

	sortSpec, ok := sortKeys[f.Sort]
	if !ok {
		sortSpec = sortKeys[SortNewest]
	}
	opts := options.Find().
		SetSkip((f.Page - 1) * f.Limit).
		SetLimit(f.Limit).
		SetSort(sortSpec)

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrap("list products", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, wrap("decode products", err)
	}
	return products, total, nil
}

func (s *Products) Create(ctx context.Context, product *models.Product) error {
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsDeleted = false
	product.DeletedAt = nil
	if product.Categories == nil {
		product.Categories = []models.CategoryRef{}
	}

	res, err := s.coll.InsertOne(ctx, product)
	if err != nil {
		return wrap("insert product", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (s *Products) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return s.findOne(ctx, "find product", bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}})
}

func (s *Products) FindPublishedBySlug(ctx context.Context, slug string) (models.Product, error) {
	return s.findOne(ctx, "find product by slug", bson.M{
		"slug":      slug,
		"published": true,
		"isDeleted": bson.M{"$ne": true},
	})
}

func (s *Products) findOne(ctx context.Context, op string, filter bson.M) (models.Product, error) {
	var raw bson.M
	if err := s.coll.FindOne(ctx, filter).Decode(&raw); err != nil {
		return models.Product{}, wrap(op, err)
	}
	p, err := normalizeProductDocument(raw)
	return p, wrap(op, err)
}

// FindByIDs returns the non-deleted products among ids keyed by id.
func (s *Products) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"isDeleted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, wrap("find products", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, wrap("decode products", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// SoftDelete flags the product deleted. Already deleted products are not found.
func (s *Products) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	now := s.now()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isDeleted": true, "deletedAt": now, "updatedAt": now, "published": false}},
	)
	if err != nil {
		return wrap("delete product", err)
	}
	if res.MatchedCount == 0 {
		return wrap("delete product", mongo.ErrNoDocuments)
	}
	return nil
}
