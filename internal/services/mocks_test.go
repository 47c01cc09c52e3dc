package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd store.ProfileUpdate) (models.User, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *mockUserStore) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Address), args.Error(1)
}

func (m *mockUserStore) CountAddresses(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserStore) AddAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) (models.Address, error) {
	args := m.Called(ctx, userID, address)
	return args.Get(0).(models.Address), args.Error(1)
}

func (m *mockUserStore) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, patch store.AddressPatch) (models.Address, error) {
	args := m.Called(ctx, userID, addressID, patch)
	return args.Get(0).(models.Address), args.Error(1)
}

func (m *mockUserStore) SetDefaultAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (models.Address, error) {
	args := m.Called(ctx, userID, addressID)
	return args.Get(0).(models.Address), args.Error(1)
}

func (m *mockUserStore) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) List(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductStore) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockProductStore) FindPublishedBySlug(ctx context.Context, slug string) (models.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[primitive.ObjectID]models.Product), args.Error(1)
}

func (m *mockProductStore) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCategoryStore) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[primitive.ObjectID]models.Category), args.Error(1)
}

type mockBrandStore struct{ mock.Mock }

func (m *mockBrandStore) List(ctx context.Context) ([]models.Brand, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Brand), args.Error(1)
}

func (m *mockBrandStore) Create(ctx context.Context, brand *models.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *mockBrandStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Brand, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Brand), args.Error(1)
}

type mockCartStore struct{ mock.Mock }

func (m *mockCartStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *mockCartStore) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Get(0).(models.CartItem), args.Error(1)
}

func (m *mockCartStore) UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (models.CartItem, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Get(0).(models.CartItem), args.Error(1)
}

func (m *mockCartStore) Delete(ctx context.Context, userID, itemID primitive.ObjectID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Issue(models.User) (string, error) { return s.token, s.err }
func (s stubTokens) TTL() time.Duration                { return time.Hour }

// failingHasher verifies with bcrypt but cannot produce new hashes.
type failingHasher struct {
	BcryptHasher
	err error
}

func (h failingHasher) Hash(string) (string, error) { return "", h.err }
