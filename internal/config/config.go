// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the knobs for the HTTP server and its backing stores.
type Config struct {
	HTTPAddr        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	JWTSecret       string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
	DevLog          bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolenv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults. REDIS_ADDR
// may be empty, which disables the purchase idempotency guard.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getenv("MONGO_DB", "sweetshop"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		JWTSecret:       getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:        durenvs("TOKEN_TTL", int((7 * 24 * time.Hour).Seconds())),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 5),
		DevLog:          boolenv("LOG_DEV"),
	}
}
