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

type Brands struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewBrands(db *mongo.Database) *Brands {
	return &Brands{coll: db.Collection(database.BrandsCollection), now: time.Now}
}

func (s *Brands) List(ctx context.Context) ([]models.Brand, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("list brands", err)
	}
	defer cursor.Close(ctx)

	brands := make([]models.Brand, 0)
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, wrap("decode brands", err)
	}
	return brands, nil
}

func (s *Brands) Create(ctx context.Context, brand *models.Brand) error {
	brand.CreatedAt = s.now()

	res, err := s.coll.InsertOne(ctx, brand)
	if err != nil {
		return wrap("insert brand", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		brand.ID = id
	}
	return nil
}

func (s *Brands) FindByID(ctx context.Context, id primitive.ObjectID) (models.Brand, error) {
	var brand models.Brand
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&brand)
	return brand, wrap("find brand", err)
}
