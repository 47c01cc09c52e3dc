package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
	"github.com/AKhanjyan/WhiteShopML/internal/problem"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

const minPasswordLength = 6

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
	TTL() time.Duration
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	Locale    string `json:"locale"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresIn   int64   `json:"expiresIn"`
	User        Profile `json:"user"`
}

type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := normalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)
	if email == "" {
		return AuthResult{}, problem.Validation("email is required")
	}
	if len(password) < minPasswordLength {
		return AuthResult{}, problem.Validation("password must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return AuthResult{}, problem.Validation("password must be at most 72 bytes")
	}
	locale := strings.TrimSpace(in.Locale)
	if locale == "" {
		locale = "en"
	}
	if !supportedLocales[locale] {
		return AuthResult{}, problem.Validation("locale must be one of [en ru hy]")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, problem.Internal("Failed to hash password", err)
	}

	user := models.User{
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Locale:       locale,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return AuthResult{}, problem.Conflict("Email already registered", "An account with this email already exists").WithCause(err)
		}
		return AuthResult{}, problem.Internal("", err)
	}

	zap.L().Info("[AUTH] user registered", zap.String("userId", user.ID.Hex()))
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	invalid := problem.Unauthorized("Invalid credentials", "Email or password is incorrect")

	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if isNotFound(err) {
			return AuthResult{}, invalid
		}
		return AuthResult{}, problem.Internal("", err)
	}
	if user.PasswordHash == "" {
		return AuthResult{}, invalid
	}

	switch err := s.hasher.Compare(user.PasswordHash, strings.TrimSpace(in.Password)); {
	case err == nil:
	case errors.Is(err, ErrPasswordMismatch):
		zap.L().Info("[AUTH] login rejected", zap.String("userId", user.ID.Hex()))
		return AuthResult{}, invalid
	default:
		return AuthResult{}, problem.Internal("Failed to verify password", err)
	}

	if user.Blocked {
		return AuthResult{}, problem.Forbidden("Account is blocked")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, problem.Internal("Failed to issue token", err)
	}
	return AuthResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        profileOf(user),
	}, nil
}
