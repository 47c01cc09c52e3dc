package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	UsersCollection      = "users"
	OrdersCollection     = "orders"
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	BrandsCollection     = "brands"
	CartItemsCollection  = "cart_items"
)

// indexSet lists the indexes one collection needs.
type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []indexSet {
	return []indexSet{
		{
			collection: UsersCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("email_unique").SetUnique(true),
				},
			},
		},
		{
			collection: OrdersCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("userId_createdAt"),
				},
			},
		},
		{
			collection: ProductsCollection,
			models: []mongo.IndexModel{
				{
					// SKU and slug uniqueness are enforced here, not in the
					// service. Soft-deleted products release both.
					Keys: bson.D{{Key: "sku", Value: 1}},
					Options: options.Index().
						SetName("sku_unique_live").
						SetUnique(true).
						SetPartialFilterExpression(bson.M{
							"sku":       bson.M{"$type": "string"},
							"isDeleted": false,
						}),
				},
				{
					Keys: bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().
						SetName("slug_unique_live").
						SetUnique(true).
						SetPartialFilterExpression(bson.M{"isDeleted": false}),
				},
				{
					Keys:    bson.D{{Key: "categories.slug", Value: 1}},
					Options: options.Index().SetName("categories_slug"),
				},
				{
					Keys:    bson.D{{Key: "price", Value: 1}},
					Options: options.Index().SetName("price"),
				},
			},
		},
		{
			collection: CategoriesCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetName("slug_unique").SetUnique(true),
				},
			},
		},
		{
			collection: BrandsCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetName("slug_unique").SetUnique(true),
				},
			},
		},
		{
			collection: CartItemsCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
					Options: options.Index().SetName("user_product_unique").SetUnique(true),
				},
			},
		},
	}
}

// EnsureIndexes creates every index in the plan. A failing collection is
// logged and reported, the rest are still attempted.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var failed []string
	for _, set := range indexPlan() {
		if err := ensureCollectionIndexes(ctx, db, set); err != nil {
			zap.L().Warn("[INDEX] index creation failed",
				zap.String("collection", set.collection),
				zap.Error(err))
			failed = append(failed, set.collection)
			continue
		}
		zap.L().Info("[INDEX] indexes ensured", zap.String("collection", set.collection))
	}
	if len(failed) > 0 {
		return fmt.Errorf("index creation failed for %v", failed)
	}
	return nil
}

func ensureCollectionIndexes(ctx context.Context, db *mongo.Database, set indexSet) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.Collection(set.collection).Indexes().CreateMany(ctx, set.models)
	return err
}
