package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	// JWT
	JWTSecret string `env:"JWT_SECRET" envDefault:"fallback-secret-key-for-dev-only"`

	// Operations endpoints are disabled when empty.
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// Quote provider (brapi.dev)
	QuoteBaseURL   string        `env:"BRAPI_BASE_URL" envDefault:"https://brapi.dev"`
	QuoteToken     string        `env:"BRAPI_TOKEN"`
	QuoteTimeout   time.Duration `env:"BRAPI_TIMEOUT" envDefault:"10s"`
	QuoteCacheTTL  time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"15m"`
	QuoteCacheCost int64         `env:"QUOTE_CACHE_MAX_COST" envDefault:"1000"`

	// Fixed income
	IndexSpread string `env:"INDEX_SPREAD" envDefault:"0.1"`
}

var (
	appConfig *Config
	mu        sync.Mutex
)

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	mu.Lock()
	appConfig = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the application configuration
func Get() *Config {
	mu.Lock()
	cfg := appConfig
	mu.Unlock()
	if cfg != nil {
		return cfg
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}
