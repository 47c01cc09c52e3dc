package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"

	PaymentStatusPaid = "paid"
)

// OrderItem represents a single product entry within an order.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	VariantID string             `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Title     string             `bson:"title" json:"title"`
	SKU       string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Total     float64            `bson:"total" json:"total"`
}

// Order defines the persisted order document.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number            string             `bson:"number" json:"number"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Status            string             `bson:"status" json:"status"`
	PaymentStatus     string             `bson:"paymentStatus" json:"paymentStatus"`
	FulfillmentStatus string             `bson:"fulfillmentStatus" json:"fulfillmentStatus"`
	Total             float64            `bson:"total" json:"total"`
	Currency          string             `bson:"currency" json:"currency"`
	Items             []OrderItem        `bson:"items" json:"items"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
