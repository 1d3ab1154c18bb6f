// Package config loads process configuration from environment variables so
// main stays lean. Required and optional variables are split explicitly; a
// missing required variable fails startup with one aggregated error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server and the Concur adapter need at startup.
// It is read once and treated as immutable.
type Config struct {
	// OAuth credentials for the Concur token endpoint.
	ClientID     string
	ClientSecret string

	// Optional per-user credentials. When Username and Password are set the
	// session uses the password grant; when RefreshToken is set it takes
	// priority. With neither, the session falls back to client credentials.
	Username     string
	Password     string
	RefreshToken string

	// BaseURL is the Concur API root for the token and travel-profile
	// endpoints. The identity endpoint root comes from the geolocation
	// returned at authentication time.
	BaseURL string

	// CompanyID is used when creating identities that do not carry an
	// explicit enterprise company id.
	CompanyID string

	// Server
	Addr string

	// RequestTimeout bounds every outbound vendor call.
	RequestTimeout time.Duration

	// VendorRateLimit caps outbound vendor calls per second. Zero disables
	// the limiter.
	VendorRateLimit float64

	// Redis / cache
	RedisURL        string
	ProfileCacheTTL time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.ClientID = os.Getenv("CONCUR_CLIENT_ID")
	if cfg.ClientID == "" {
		missing = append(missing, "CONCUR_CLIENT_ID")
	}
	cfg.ClientSecret = os.Getenv("CONCUR_CLIENT_SECRET")
	if cfg.ClientSecret == "" {
		missing = append(missing, "CONCUR_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Username = os.Getenv("CONCUR_USERNAME")
	cfg.Password = os.Getenv("CONCUR_PASSWORD")
	cfg.RefreshToken = os.Getenv("CONCUR_REFRESH_TOKEN")
	cfg.CompanyID = os.Getenv("CONCUR_COMPANY_UUID")

	cfg.BaseURL = getEnv("CONCUR_BASE_URL", "https://us2.api.concursolutions.com")
	cfg.Addr = getEnv("TRAVELGATE_ADDR", ":8080")
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
	cfg.VendorRateLimit = getEnvFloat("VENDOR_RATE_LIMIT", 0)
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.ProfileCacheTTL = getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
