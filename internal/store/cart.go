package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AKhanjyan/WhiteShopML/internal/database"
	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

type Cart struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCart(db *mongo.Database) *Cart {
	return &Cart{coll: db.Collection(database.CartItemsCollection), now: time.Now}
}

// ListByUser returns the user's cart lines, oldest first.
func (s *Cart) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, wrap("list cart", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.CartItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, wrap("decode cart", err)
	}
	return items, nil
}

// Add increments the quantity of the user's line for productID, creating
// the line when it does not exist yet.
func (s *Cart) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.CartItem, error) {
	now := s.now()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var item models.CartItem
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{
			"$inc":         bson.M{"quantity": quantity},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		opts,
	).Decode(&item)
	return item, wrap("add cart item", err)
}

// UpdateQuantity sets the quantity of a line owned by userID.
func (s *Cart) UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (models.CartItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.CartItem
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": itemID, "userId": userID},
		bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": s.now()}},
		opts,
	).Decode(&item)
	return item, wrap("update cart item", err)
}

// Delete removes a line owned by userID.
func (s *Cart) Delete(ctx context.Context, userID, itemID primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": itemID, "userId": userID})
	if err != nil {
		return wrap("delete cart item", err)
	}
	if res.DeletedCount == 0 {
		return wrap("delete cart item", mongo.ErrNoDocuments)
	}
	return nil
}
