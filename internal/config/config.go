package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort           string
	BackendAPIURL      string
	RedisAddr          string
	RedisPassword      string
	MongoURI           string // empty selects the in-memory repository
	MongoDBName        string
	MongoMaxPoolSize   uint64
	MongoMinPoolSize   uint64
	KafkaBrokers       []string
	CheckoutTopic      string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	CartTTL            time.Duration
	Currency           string
	LogLevel           string
	LogFormat          string
	MaxRequestBodySize int64
}

// Load reads the configuration from the environment, falling back to defaults
// for unset variables.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendAPIURL:      getEnv("BACKEND_API_URL", "http://localhost:3000/api"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDBName:        getEnv("MONGO_DB_NAME", "storefront"),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		CheckoutTopic:      getEnv("CHECKOUT_TOPIC", "checkout-completed"),
		Currency:           strings.ToUpper(getEnv("CURRENCY", "USD")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = getDuration("CART_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MongoMaxPoolSize, err = getUint("MONGO_MAX_POOL_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.MongoMinPoolSize, err = getUint("MONGO_MIN_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.MongoMaxPoolSize == 0 {
		return nil, errors.New("invalid MONGO_MAX_POOL_SIZE: must be positive")
	}
	if cfg.MongoMinPoolSize > cfg.MongoMaxPoolSize {
		return nil, fmt.Errorf("invalid MONGO_MIN_POOL_SIZE %d: exceeds MONGO_MAX_POOL_SIZE %d", cfg.MongoMinPoolSize, cfg.MongoMaxPoolSize)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, raw)
	}
	return d, nil
}

func getUint(key string, defaultValue uint64) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
