package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTTL        = "30m"
	defaultRefreshTTL       = "168h"
	defaultCookieSecure     = "false"
	defaultCookieSameSite   = "Strict"
	defaultCookiePath       = "/api/auth"
	defaultDatabaseURL      = "imagencali.db"
	defaultPort             = "3000"
	defaultClientURL        = "http://localhost:8081"
	defaultMaxUploadSize    = 10 << 20
	defaultMaxDimension     = 4096
	defaultMaxOptimizedSize = 1024
	defaultCleanupInterval  = "24h"
	defaultRetention        = "720h" // 30 days
)

// Config holds the whole application configuration, loaded once at startup
// and injected into components. Nothing reads the environment after Load.
type Config struct {
	AppEnv string
	Port   string

	DatabaseURL string
	ClientURL   string

	// Access and refresh tokens are signed with distinct secrets. Both are
	// required: the process refuses to start without them.
	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	CookieSecure   bool
	CookieSameSite string
	CookiePath     string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string

	MaxUploadSize     int64
	MaxImageDimension int
	MaxOptimizedSize  int

	CleanupInterval time.Duration
	SweepRetention  time.Duration

	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.ClientURL = getEnv("CLIENT_URL", defaultClientURL)

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	cfg.JWTRefreshSecret = strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET"))

	var err error
	cfg.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.CleanupInterval, err = parseDurationEnv("CLEANUP_INTERVAL", defaultCleanupInterval)
	if err != nil {
		return nil, err
	}
	cfg.SweepRetention, err = parseDurationEnv("SWEEP_RETENTION", defaultRetention)
	if err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	cfg.R2AccountID = strings.TrimSpace(os.Getenv("R2_ACCOUNT_ID"))
	cfg.R2AccessKeyID = strings.TrimSpace(os.Getenv("R2_ACCESS_KEY_ID"))
	cfg.R2SecretAccessKey = strings.TrimSpace(os.Getenv("R2_SECRET_ACCESS_KEY"))
	cfg.R2Bucket = strings.TrimSpace(os.Getenv("R2_BUCKET_NAME"))

	cfg.MaxUploadSize = int64(parseIntEnv("MAX_UPLOAD_SIZE", defaultMaxUploadSize))
	cfg.MaxImageDimension = parseIntEnv("MAX_IMAGE_DIMENSION", defaultMaxDimension)
	cfg.MaxOptimizedSize = parseIntEnv("MAX_OPTIMIZED_SIZE", defaultMaxOptimizedSize)

	cfg.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s cookie secure=%t sameSite=%s path=%s", cfg.AppEnv, cfg.CookieSecure, cfg.CookieSameSite, cfg.CookiePath)

	return cfg, nil
}

// IsProd reports whether the app runs in a production-like environment.
// Error details are suppressed and secure cookies enforced when true.
func (c *Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func validateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if cfg.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}

	if cfg.IsProd() {
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod COOKIE_SECURE must be true")
		}
		if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2Bucket == "" {
			return fmt.Errorf("in prod R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME are required")
		}
	}

	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func parseIntEnv(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
