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

type Categories struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCategories(db *mongo.Database) *Categories {
	return &Categories{coll: db.Collection(database.CategoriesCollection), now: time.Now}
}

// List returns categories ordered by title. activeOnly hides inactive ones.
func (s *Categories) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("list categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, wrap("decode categories", err)
	}
	return categories, nil
}

func (s *Categories) Create(ctx context.Context, category *models.Category) error {
	category.CreatedAt = s.now()

	res, err := s.coll.InsertOne(ctx, category)
	if err != nil {
		return wrap("insert category", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = id
	}
	return nil
}

// FindByIDs returns the categories among ids, keyed by id.
func (s *Categories) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	out := make(map[primitive.ObjectID]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, wrap("find categories", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var cat models.Category
		if err := cursor.Decode(&cat); err != nil {
			return nil, wrap("decode category", err)
		}
		out[cat.ID] = cat
	}
	if err := cursor.Err(); err != nil {
		return nil, wrap("find categories", err)
	}
	return out, nil
}
