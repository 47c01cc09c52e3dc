package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AKhanjyan/WhiteShopML/internal/database"
	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

type Orders struct {
	coll *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{coll: db.Collection(database.OrdersCollection)}
}

// ListByUser returns every order of the user, newest first, items included.
func (s *Orders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrap("decode orders", err)
	}
	return orders, nil
}
