package store

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

// normalizeProductDocument coerces loosely typed catalog imports (stock as
// string or double, published as "true") before decoding, and derives
// inStock when the document does not carry it.
func normalizeProductDocument(raw bson.M) (models.Product, error) {
	raw["stock"] = coerceInt(raw["stock"])

	if val, ok := raw["published"]; ok {
		switch typed := val.(type) {
		case string:
			raw["published"] = strings.EqualFold(strings.TrimSpace(typed), "true")
		case bool:
		default:
			raw["published"] = false
		}
	}

	_, hasInStock := raw["inStock"]

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Product{}, err
	}

	if !hasInStock {
		p.InStock = derivedInStock(p)
	}
	return p, nil
}

func coerceInt(val interface{}) int {
	switch typed := val.(type) {
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	case int:
		return typed
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// derivedInStock is true when the product or any of its variants has stock.
func derivedInStock(p models.Product) bool {
	if p.Stock > 0 {
		return true
	}
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
