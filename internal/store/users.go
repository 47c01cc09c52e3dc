package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AKhanjyan/WhiteShopML/internal/database"
	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

// ProfileUpdate carries the mutable profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Locale    *string
}

// AddressPatch carries the address fields to overwrite. Nil fields are
// left as is. IsDefault=true makes the address the only default.
type AddressPatch struct {
	FirstName    *string
	LastName     *string
	Company      *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	CountryCode  *string
	Phone        *string
	IsDefault    *bool
}

func (p AddressPatch) fields() bson.M {
	out := bson.M{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("firstName", p.FirstName)
	set("lastName", p.LastName)
	set("company", p.Company)
	set("addressLine1", p.AddressLine1)
	set("addressLine2", p.AddressLine2)
	set("city", p.City)
	set("state", p.State)
	set("postalCode", p.PostalCode)
	set("countryCode", p.CountryCode)
	set("phone", p.Phone)
	if p.IsDefault != nil {
		out["isDefault"] = *p.IsDefault
	}
	return out
}

type Users struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(database.UsersCollection), now: time.Now}
}

func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, wrap("find user", err)
}

func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, wrap("find user by email", err)
}

// Create inserts user and fills its ID.
func (s *Users) Create(ctx context.Context, user *models.User) error {
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}
	if user.Roles == nil {
		user.Roles = []string{}
	}

	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return wrap("insert user", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *Users) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (models.User, error) {
	set := bson.M{"updatedAt": s.now()}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.Locale != nil {
		set["locale"] = *upd.Locale
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	return user, wrap("update profile", err)
}

func (s *Users) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"passwordHash": hash, "updatedAt": s.now()},
	})
	if err != nil {
		return wrap("update password", err)
	}
	if res.MatchedCount == 0 {
		return wrap("update password", mongo.ErrNoDocuments)
	}
	return nil
}

// ListAddresses returns the user's addresses, default first.
func (s *Users) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	user, err := s.findAddresses(ctx, userID)
	if err != nil {
		return nil, wrap("list addresses", err)
	}
	addresses := user.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}
	sort.SliceStable(addresses, func(i, j int) bool {
		return addresses[i].IsDefault && !addresses[j].IsDefault
	})
	return addresses, nil
}

func (s *Users) CountAddresses(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	user, err := s.findAddresses(ctx, userID)
	if err != nil {
		return 0, wrap("count addresses", err)
	}
	return int64(len(user.Addresses)), nil
}

func (s *Users) findAddresses(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"addresses": 1})
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&user)
	return user, err
}

// AddAddress appends address. The first address a user saves becomes the
// default; later ones never do.
func (s *Users) AddAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) (models.Address, error) {
	now := s.now()

	first := address
	first.IsDefault = true
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"$or": bson.A{
				bson.M{"addresses": nil},
				bson.M{"addresses": bson.M{"$size": 0}},
			},
		},
		bson.M{"$set": bson.M{"addresses": bson.A{first}, "updatedAt": now}},
	)
	if err != nil {
		return models.Address{}, wrap("add address", err)
	}
	if res.MatchedCount == 1 {
		return first, nil
	}

	address.IsDefault = false
	res, err = s.coll.UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"addresses": address},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return models.Address{}, wrap("add address", err)
	}
	if res.MatchedCount == 0 {
		return models.Address{}, wrap("add address", mongo.ErrNoDocuments)
	}
	return address, nil
}

// UpdateAddress applies patch to one of the user's addresses in a single
// document update.
func (s *Users) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, patch AddressPatch) (models.Address, error) {
	clearOthers := patch.IsDefault != nil && *patch.IsDefault
	return s.rewriteAddress(ctx, "update address", userID, addressID, patch.fields(), clearOthers)
}

// SetDefaultAddress flags addressID as default and clears the flag on every
// other address of the user, atomically.
func (s *Users) SetDefaultAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (models.Address, error) {
	return s.rewriteAddress(ctx, "set default address", userID, addressID, bson.M{"isDefault": true}, true)
}

func (s *Users) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "addresses.id": addressID},
		bson.M{
			"$pull": bson.M{"addresses": bson.M{"id": addressID}},
			"$set":  bson.M{"updatedAt": s.now()},
		},
	)
	if err != nil {
		return wrap("delete address", err)
	}
	if res.MatchedCount == 0 {
		return wrap("delete address", mongo.ErrNoDocuments)
	}
	return nil
}

func (s *Users) rewriteAddress(ctx context.Context, op string, userID primitive.ObjectID, addressID string, fields bson.M, clearOthers bool) (models.Address, error) {
	filter := bson.M{"_id": userID, "addresses.id": addressID}
	update := mongo.Pipeline{addressRewriteStage(addressID, fields, clearOthers, s.now())}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"addresses": 1})

	var user models.User
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return models.Address{}, wrap(op, err)
	}
	for _, addr := range user.Addresses {
		if addr.ID == addressID {
			return addr, nil
		}
	}
	return models.Address{}, wrap(op, mongo.ErrNoDocuments)
}

// addressRewriteStage builds a $set stage that merges fields into the
// address with addressID and, when clearOthers is set, resets isDefault on
// the rest. Values are wrapped in $literal so user input starting with "$"
// is never read as a field path.
func addressRewriteStage(addressID string, fields bson.M, clearOthers bool, now time.Time) bson.D {
	literal := bson.M{}
	for key, value := range fields {
		literal[key] = bson.M{"$literal": value}
	}

	var others interface{} = "$$a"
	if clearOthers {
		others = bson.M{"$mergeObjects": bson.A{"$$a", bson.M{"isDefault": false}}}
	}

	return bson.D{{Key: "$set", Value: bson.M{
		"addresses": bson.M{"$map": bson.M{
			"input": "$addresses",
			"as":    "a",
			"in": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$$a.id", bson.M{"$literal": addressID}}},
				bson.M{"$mergeObjects": bson.A{"$$a", literal}},
				others,
			}},
		}},
		"updatedAt": now,
	}}}
}
