// ABOUTME: Configuration loader for the broker service
// ABOUTME: Loads settings from a .env file and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string

	// Cache TTLs (seconds)
	ClusterCacheTTL     int // cluster rollups (default 60s)
	MarketplaceCacheTTL int // marketplace browse pages (default 15s)

	// Storage. Empty endpoints select the in-memory store (dev mode).
	EtcdEndpoints   []string
	EtcdDialTimeout time.Duration
}

// EtcdConfigured returns true when durable storage endpoints are set.
func (c *Config) EtcdConfigured() bool {
	return len(c.EtcdEndpoints) > 0
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		ClusterCacheTTL:     getEnvInt("CLUSTER_CACHE_TTL", 60),
		MarketplaceCacheTTL: getEnvInt("MARKETPLACE_CACHE_TTL", 15),
		EtcdEndpoints:       getEnvStringList("ETCD_ENDPOINTS"),
		EtcdDialTimeout:     time.Duration(getEnvInt("ETCD_DIAL_TIMEOUT_SEC", 5)) * time.Second,
	}

	if cfg.ClusterCacheTTL < 1 {
		return nil, fmt.Errorf("CLUSTER_CACHE_TTL must be at least 1, got %d", cfg.ClusterCacheTTL)
	}
	if cfg.MarketplaceCacheTTL < 1 {
		return nil, fmt.Errorf("MARKETPLACE_CACHE_TTL must be at least 1, got %d", cfg.MarketplaceCacheTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
