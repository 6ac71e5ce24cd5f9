package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob the service reads at startup. It is constructed
// once in main and passed by reference into the components that need it, so
// tests can supply isolated fixtures instead of ambient environment state.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string

	AuthSecret     string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration

	S3Region       string
	S3Bucket       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	InfoEmail    string

	// ExternalBaseURL is the public origin used when building verification
	// links sent over email.
	ExternalBaseURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:        envOr("FUATILIA_HTTP_ADDR", ":8080"),
		DatabaseDSN:     os.Getenv("FUATILIA_PG_DSN"),
		AuthSecret:      os.Getenv("HASH_SECRET_STR"),
		JWTAlgorithm:    envOr("JWT_ALGORITHM", "HS256"),
		S3Region:        os.Getenv("S3_BUCKET_REGION"),
		S3Bucket:        os.Getenv("S3_BUCKET_NAME"),
		S3BaseEndpoint:  os.Getenv("S3_BASE_ENDPOINT"),
		S3AccessKey:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		InfoEmail:       os.Getenv("INFO_EMAIL"),
		ExternalBaseURL: envOr("FUATILIA_BASE_URL", "http://localhost:8080"),
	}

	ttlMinutes, err := envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.SMTPPort, err = envInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AuthSecret) == "" {
		return errors.New("config: HASH_SECRET_STR is required")
	}
	if c.JWTAlgorithm != "HS256" {
		return fmt.Errorf("config: unsupported JWT algorithm %q", c.JWTAlgorithm)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("config: token TTL must be positive")
	}
	return nil
}

// S3Configured reports whether the object-storage settings are usable.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// SMTPConfigured reports whether outbound email settings are usable.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.InfoEmail != ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return v, nil
}
