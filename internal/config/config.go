package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var AppEnv Config

type Config struct {
	Environment    string
	Port           string
	LogLevel       string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	BcryptCost     int
	// AppURL is the storefront origin allowed by CORS.
	AppURL             string
	CORSAllowedOrigins []string
}

func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := Config{
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		Port:               getEnvOrDefault("PORT", "8080"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		MongoURI:           getEnvOrDefault("MONGO_URI", ""),
		DBName:             getEnvOrDefault("DB_NAME", "whiteshop"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
		BcryptCost:         getIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
		AppURL:             strings.TrimRight(getEnvOrDefault("APP_URL", ""), "/"),
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", nil),
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	AppEnv = cfg
	return nil
}

// Validate reports the first missing or out-of-range setting.
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// AllowedOrigins merges APP_URL with CORS_ALLOWED_ORIGINS, dropping duplicates.
func (c Config) AllowedOrigins() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(c.CORSAllowedOrigins)+1)
	for _, origin := range append([]string{c.AppURL}, c.CORSAllowedOrigins...) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}
		out = append(out, origin)
	}
	return out
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
