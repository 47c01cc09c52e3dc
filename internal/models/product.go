package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BrandRef struct {
	ID   primitive.ObjectID `bson:"id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type CategoryRef struct {
	ID    primitive.ObjectID `bson:"id" json:"id"`
	Slug  string             `bson:"slug" json:"slug"`
	Title string             `bson:"title" json:"title"`
}

type VariantOption struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

type Variant struct {
	SKU     string          `bson:"sku,omitempty" json:"sku,omitempty"`
	Price   float64         `bson:"price" json:"price"`
	Stock   int             `bson:"stock" json:"stock"`
	Options []VariantOption `bson:"options,omitempty" json:"options,omitempty"`
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Slug           string             `bson:"slug" json:"slug"`
	SKU            string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice *float64           `bson:"compareAtPrice,omitempty" json:"compareAtPrice"`
	Currency       string             `bson:"currency" json:"currency"`
	Stock          int                `bson:"stock" json:"stock"`
	InStock        bool               `bson:"inStock" json:"inStock"`
	Published      bool               `bson:"published" json:"published"`
	Brand          *BrandRef          `bson:"brand,omitempty" json:"brand"`
	Categories     []CategoryRef      `bson:"categories" json:"categories"`
	Variants       []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
	Images         StringList         `bson:"images" json:"images"`
	IsDeleted      bool               `bson:"isDeleted" json:"-"`
	DeletedAt      *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Image returns the first image or an empty string.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
