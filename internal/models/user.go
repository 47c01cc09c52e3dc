package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

// Address represents a single address entry for a user.
type Address struct {
	ID           string `bson:"id" json:"id"`
	FirstName    string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Company      string `bson:"company,omitempty" json:"company,omitempty"`
	AddressLine1 string `bson:"addressLine1" json:"addressLine1"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode   string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	CountryCode  string `bson:"countryCode" json:"countryCode"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	IsDefault    bool   `bson:"isDefault" json:"isDefault"`
}

// User represents the application user account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Locale       string             `bson:"locale" json:"locale"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Roles        []string           `bson:"roles" json:"roles"`
	Blocked      bool               `bson:"blocked" json:"blocked"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
