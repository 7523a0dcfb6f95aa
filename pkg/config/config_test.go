package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.Enabled {
		t.Error("Expected database to be disabled by default")
	}

	if cfg.Redis.Enabled {
		t.Error("Expected redis to be disabled by default")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("FINNHUB_API_KEY", "fh-key")
	os.Setenv("LOG_LEVEL", "warn")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("FINNHUB_API_KEY")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.MarketData.FinnhubKey != "fh-key" {
		t.Errorf("Expected FinnhubKey to be fh-key, got %s", cfg.MarketData.FinnhubKey)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected LogLevel to be warn, got %s", cfg.LogLevel)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "nonsense")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid ENV value")
	}
}

func TestLoadDatabaseEnabledRequiresURL(t *testing.T) {
	os.Setenv("DATABASE_ENABLED", "true")
	os.Setenv("DATABASE_URL", "")
	defer func() {
		os.Unsetenv("DATABASE_ENABLED")
		os.Unsetenv("DATABASE_URL")
	}()

	if _, err := Load(); err == nil {
		t.Error("Expected error when database is enabled without DATABASE_URL")
	}
}
