package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.ClinicTimezone != "Asia/Kolkata" {
		t.Errorf("ClinicTimezone = %s, want Asia/Kolkata", cfg.ClinicTimezone)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("DBMaxConns = %d, want 20", cfg.DBMaxConns)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{ClinicTimezone: "Asia/Kolkata"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "Asia/Kolkata" {
		t.Errorf("location = %s, want Asia/Kolkata", loc)
	}

	cfg = &Config{ClinicTimezone: "Mars/Olympus_Mons"}
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestConfig_TokenTTL(t *testing.T) {
	cfg := &Config{JWTExpiry: "12h"}
	ttl, err := cfg.TokenTTL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl != 12*time.Hour {
		t.Errorf("ttl = %v, want 12h", ttl)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := Config{Env: "production", ClinicTimezone: "Asia/Kolkata", JWTExpiry: "24h"}

	cfg := base
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}

	cfg = base
	cfg.JWTSecret = "s3cret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg = base
	cfg.JWTSecret = "s3cret"
	cfg.ClinicTimezone = "Nowhere/Nothing"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad timezone")
	}

	// Development mode runs without a secret.
	dev := Config{Env: "development", ClinicTimezone: "Asia/Kolkata", JWTExpiry: "24h"}
	if err := dev.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
