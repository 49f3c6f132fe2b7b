package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MongoDatabase != "sweetshop" {
		t.Errorf("expected sweetshop, got %s", cfg.MongoDatabase)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("expected 7d token TTL, got %s", cfg.TokenTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MONGO_DB", "sweetshop_test")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")
	t.Setenv("LOG_DEV", "true")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTPAddr)
	}
	if cfg.MongoDatabase != "sweetshop_test" {
		t.Errorf("expected sweetshop_test, got %s", cfg.MongoDatabase)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.ShutdownTimeout)
	}
	if !cfg.DevLog {
		t.Error("expected DevLog true")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected default 5s, got %s", cfg.ShutdownTimeout)
	}
}
