// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	API         APIConfig
	Search      SearchConfig
	Checkout    CheckoutConfig
	Log         LogConfig
}

type APIConfig struct {
	BaseURL        string
	AuthToken      string
	RequestTimeout time.Duration
	RatePerSecond  float64
	RateBurst      int
}

type SearchConfig struct {
	DebounceInterval time.Duration
}

type CheckoutConfig struct {
	RedirectDelay time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		API: APIConfig{
			BaseURL:        getEnv("MARKET_API_URL", "http://localhost:8080/api"),
			AuthToken:      getEnv("MARKET_AUTH_TOKEN", ""),
			RequestTimeout: getEnvAsDuration("MARKET_REQUEST_TIMEOUT", 15*time.Second),
			RatePerSecond:  getEnvAsFloat("MARKET_RATE_PER_SECOND", 10),
			RateBurst:      getEnvAsInt("MARKET_RATE_BURST", 10),
		},
		Search: SearchConfig{
			DebounceInterval: getEnvAsDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		},
		Checkout: CheckoutConfig{
			RedirectDelay: getEnvAsDuration("CHECKOUT_REDIRECT_DELAY", 2*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("MARKET_API_URL is required")
	}

	if c.Search.DebounceInterval <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be positive")
	}

	if c.API.AuthToken == "" && c.Environment == "production" {
		return fmt.Errorf("MARKET_AUTH_TOKEN is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
