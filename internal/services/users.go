package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

const (
	userNotFound    = "User not found"
	addressNotFound = "Address not found"

	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

var supportedLocales = map[string]bool{"en": true, "ru": true, "hy": true}

// Profile is the account view returned to its owner.
type Profile struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Locale    string           `json:"locale"`
	Addresses []models.Address `json:"addresses"`
}

func profileOf(u models.User) Profile {
	addresses := u.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}
	return Profile{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Phone:     u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Locale:    u.Locale,
		Addresses: addresses,
	}
}

type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Locale    *string `json:"locale"`
}

type AddressInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	CountryCode  string `json:"countryCode" binding:"required"`
	Phone        string `json:"phone"`
}

// AddressUpdateInput holds the fields to change; absent fields stay as is.
type AddressUpdateInput struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Company      *string `json:"company"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postalCode"`
	CountryCode  *string `json:"countryCode"`
	Phone        *string `json:"phone"`
	IsDefault    *bool   `json:"isDefault"`
}

type UsersService struct {
	users  UserStore
	orders OrderStore
	hasher PasswordHasher
	newID  func() (string, error)
}

func NewUsersService(users UserStore, orders OrderStore, hasher PasswordHasher) *UsersService {
	return &UsersService{users: users, orders: orders, hasher: hasher, newID: newAddressID}
}

func newAddressID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *UsersService) GetProfile(ctx context.Context, userID primitive.ObjectID) (Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, storeFailure(err, userNotFound)
	}
	return profileOf(user), nil
}

func (s *UsersService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (Profile, error) {
	upd := store.ProfileUpdate{
		FirstName: trimmed(in.FirstName),
		LastName:  trimmed(in.LastName),
		Locale:    trimmed(in.Locale),
	}
	if upd.Locale != nil && !supportedLocales[*upd.Locale] {
		return Profile{}, problem.Validation("locale must be one of [en ru hy]")
	}

	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return Profile{}, storeFailure(err, userNotFound)
	}
	return profileOf(user), nil
}

// ChangePassword replaces the user's password after verifying the old one.
func (s *UsersService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" {
		return problem.Validation("Old password is required and must be a non-empty string")
	}
	if newPassword == "" {
		return problem.Validation("New password is required and must be a non-empty string")
	}
	if len(newPassword) > maxPasswordBytes {
		return problem.Validation("New password must be at most 72 bytes")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return problem.Internal("", err)
	}
	if err != nil || user.PasswordHash == "" {
		return problem.Unauthorized("Invalid credentials", "User not found or password not set")
	}
	if strings.TrimSpace(user.PasswordHash) == "" {
		return problem.Internal("User password hash is invalid", nil)
	}

	switch err := s.hasher.Compare(user.PasswordHash, oldPassword); {
	case err == nil:
	case errors.Is(err, ErrPasswordMismatch):
		return problem.Unauthorized("Invalid password", "The old password is incorrect")
	case errors.Is(err, ErrMalformedHash):
		zap.L().Error("[USERS] stored password hash is malformed", zap.String("userId", userID.Hex()), zap.Error(err))
		return problem.Internal("User password hash is invalid", err)
	default:
		zap.L().Error("[USERS] password verification failed", zap.String("userId", userID.Hex()), zap.Error(err))
		return problem.Internal("Failed to verify password", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		zap.L().Error("[USERS] password hashing failed", zap.String("userId", userID.Hex()), zap.Error(err))
		return problem.Internal("Failed to hash new password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if isNotFound(err) {
			return storeFailure(err, "User not found")
		}
		zap.L().Error("[USERS] password update failed", zap.String("userId", userID.Hex()), zap.Error(err))
		return problem.Internal("Failed to update password", err)
	}

	zap.L().Info("[USERS] password changed", zap.String("userId", userID.Hex()))
	return nil
}

// ListAddresses returns the user's addresses, default first.
func (s *UsersService) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	addresses, err := s.users.ListAddresses(ctx, userID)
	if err != nil {
		return nil, storeFailure(err, userNotFound)
	}
	return addresses, nil
}

// AddAddress saves a new address. The user's first address becomes default.
func (s *UsersService) AddAddress(ctx context.Context, userID primitive.ObjectID, in AddressInput) (models.Address, error) {
	address := models.Address{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Company:      strings.TrimSpace(in.Company),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		CountryCode:  strings.ToUpper(strings.TrimSpace(in.CountryCode)),
		Phone:        strings.TrimSpace(in.Phone),
	}
	if missing := missingAddressFields(address.AddressLine1, address.City, address.CountryCode); missing != "" {
		return models.Address{}, problem.Validation(missing)
	}

	id, err := s.newID()
	if err != nil {
		return models.Address{}, problem.Internal("Failed to generate address id", err)
	}
	address.ID = id

	saved, err := s.users.AddAddress(ctx, userID, address)
	if err != nil {
		return models.Address{}, storeFailure(err, userNotFound)
	}
	return saved, nil
}

// UpdateAddress changes the given fields of one address. Setting isDefault
// clears the flag on the user's other addresses.
func (s *UsersService) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, in AddressUpdateInput) (models.Address, error) {
	patch := store.AddressPatch{
		FirstName:    trimmed(in.FirstName),
		LastName:     trimmed(in.LastName),
		Company:      trimmed(in.Company),
		AddressLine1: trimmed(in.AddressLine1),
		AddressLine2: trimmed(in.AddressLine2),
		City:         trimmed(in.City),
		State:        trimmed(in.State),
		PostalCode:   trimmed(in.PostalCode),
		CountryCode:  trimmed(in.CountryCode),
		Phone:        trimmed(in.Phone),
		IsDefault:    in.IsDefault,
	}
	if patch.CountryCode != nil {
		upper := strings.ToUpper(*patch.CountryCode)
		patch.CountryCode = &upper
	}

	if msg := blankAddressFields(patch); msg != "" {
		return models.Address{}, problem.Validation(msg)
	}
	if in.IsDefault != nil && !*in.IsDefault {
		// The default only moves when another address is made default.
		patch.IsDefault = nil
	}

	address, err := s.users.UpdateAddress(ctx, userID, addressID, patch)
	if err != nil {
		return models.Address{}, storeFailure(err, addressNotFound)
	}
	return address, nil
}

// SetDefaultAddress makes addressID the user's only default address.
func (s *UsersService) SetDefaultAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (models.Address, error) {
	address, err := s.users.SetDefaultAddress(ctx, userID, addressID)
	if err != nil {
		return models.Address{}, storeFailure(err, addressNotFound)
	}
	return address, nil
}

func (s *UsersService) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error {
	if err := s.users.DeleteAddress(ctx, userID, addressID); err != nil {
		return storeFailure(err, addressNotFound)
	}
	return nil
}

// GetDashboard loads the user's orders and address count concurrently and
// reduces them into account statistics.
func (s *UsersService) GetDashboard(ctx context.Context, userID primitive.ObjectID) (Dashboard, error) {
	var (
		orders         []models.Order
		addressesCount int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		addressesCount, err = s.users.CountAddresses(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, storeFailure(err, userNotFound)
	}

	return BuildDashboard(orders, addressesCount), nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// blankAddressFields reports required fields the patch would clear.
func blankAddressFields(p store.AddressPatch) string {
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"addressLine1", p.AddressLine1},
		{"city", p.City},
		{"countryCode", p.CountryCode},
	} {
		if f.value != nil && *f.value == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	return strings.Join(missing, "; ")
}

func missingAddressFields(line1, city, country string) string {
	var missing []string
	if line1 == "" {
		missing = append(missing, "addressLine1 is required")
	}
	if city == "" {
		missing = append(missing, "city is required")
	}
	if country == "" {
		missing = append(missing, "countryCode is required")
	}
	return strings.Join(missing, "; ")
}
