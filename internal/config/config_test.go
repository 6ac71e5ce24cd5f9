package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HASH_SECRET_STR", "test-secret")
	t.Setenv("FUATILIA_PG_DSN", "")
	t.Setenv("JWT_ALGORITHM", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("SMTP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Fatalf("expected HS256, got %q", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTL != 60*time.Minute {
		t.Fatalf("expected 60m TTL, got %v", cfg.AccessTokenTTL)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected default SMTP port 587, got %d", cfg.SMTPPort)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("HASH_SECRET_STR", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without HASH_SECRET_STR")
	}
}

func TestLoadRejectsUnsupportedAlgorithm(t *testing.T) {
	t.Setenv("HASH_SECRET_STR", "test-secret")
	t.Setenv("JWT_ALGORITHM", "RS256")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("HASH_SECRET_STR", "test-secret")
	t.Setenv("JWT_ALGORITHM", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "sixty")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric TTL")
	}
}

func TestFeatureFlags(t *testing.T) {
	cfg := &Config{}
	if cfg.S3Configured() {
		t.Fatalf("expected S3 unconfigured")
	}
	if cfg.SMTPConfigured() {
		t.Fatalf("expected SMTP unconfigured")
	}
	cfg.S3Bucket = "fuatilia-files"
	cfg.S3Region = "eu-west-1"
	cfg.SMTPHost = "smtp.example.com"
	cfg.InfoEmail = "info@fuatilia.org"
	if !cfg.S3Configured() || !cfg.SMTPConfigured() {
		t.Fatalf("expected S3 and SMTP configured")
	}
}
