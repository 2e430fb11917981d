package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"HTTP_SERVER_PORT"` specify the environment variable name,
// `default:""` provides a fallback when the variable is not set.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // e.g., development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`      // e.g., debug, info, warn, error
	LogJSON    bool   `envconfig:"LOG_JSON" default:"false"`      // JSON log lines instead of text
	HTTPServer ServerConfig
	Lookup     LookupConfig
}

// ServerConfig holds HTTP server-specific configuration.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// LookupConfig holds OpenFoodFacts client settings. The two endpoints live on
// different hosts upstream: exact barcode lookups use the v2 API, keyword
// search uses the classic CGI endpoint (better relevance for simple queries).
type LookupConfig struct {
	ProductBaseURL string        `envconfig:"OFF_PRODUCT_BASE_URL" default:"https://world.openfoodfacts.net/api/v2"`
	SearchBaseURL  string        `envconfig:"OFF_SEARCH_BASE_URL" default:"https://world.openfoodfacts.org"`
	Timeout        time.Duration `envconfig:"OFF_TIMEOUT" default:"5s"`
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return &cfg, nil
}
