// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// Config holds application configuration
type Config struct {
	Port            int
	LogLevel        string
	DevMode         bool
	TimeseriesURL   string        // Empty uses the public fundamentals timeseries endpoint
	ProviderTimeout time.Duration // Per provider call
	AllowedOrigins  []string      // Extra WebSocket origin host patterns
	Dashboard       DashboardConfig
}

// DashboardConfig holds the defaults applied to missing dashboard inputs.
// It can be read from the YAML file named by DASHBOARD_CONFIG.
type DashboardConfig struct {
	DefaultTicker string `yaml:"default_ticker"`
	DefaultPeriod string `yaml:"default_period"`
	DefaultWindow int    `yaml:"default_window"`
}

// Load reads .env, the optional dashboard YAML file and environment
// variables. Environment variables win over the file.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dashboard := DashboardConfig{
		DefaultTicker: "AAPL",
		DefaultPeriod: string(domain.DefaultPeriod),
		DefaultWindow: domain.DefaultWindow,
	}
	if path := getEnv("DASHBOARD_CONFIG", ""); path != "" {
		if err := loadDashboardFile(path, &dashboard); err != nil {
			return nil, err
		}
	}

	dashboard.DefaultTicker = strings.ToUpper(getEnv("DEFAULT_TICKER", dashboard.DefaultTicker))
	dashboard.DefaultPeriod = getEnv("DEFAULT_PERIOD", dashboard.DefaultPeriod)
	dashboard.DefaultWindow = getEnvAsInt("DEFAULT_WINDOW", dashboard.DefaultWindow)

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8050),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		TimeseriesURL:   getEnv("YAHOO_TIMESERIES_URL", ""),
		ProviderTimeout: time.Duration(getEnvAsInt("PROVIDER_TIMEOUT", 20)) * time.Second,
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS"),
		Dashboard:       dashboard,
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDashboardFile overlays the non-zero values of a YAML file onto dst
func loadDashboardFile(path string, dst *DashboardConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dashboard config: %w", err)
	}

	var file DashboardConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse dashboard config %s: %w", path, err)
	}

	if file.DefaultTicker != "" {
		dst.DefaultTicker = file.DefaultTicker
	}
	if file.DefaultPeriod != "" {
		dst.DefaultPeriod = file.DefaultPeriod
	}
	if file.DefaultWindow != 0 {
		dst.DefaultWindow = file.DefaultWindow
	}
	return nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %s", c.ProviderTimeout)
	}
	if _, ok := domain.ParsePeriod(c.Dashboard.DefaultPeriod); !ok {
		return fmt.Errorf("invalid default period %q", c.Dashboard.DefaultPeriod)
	}
	if w := c.Dashboard.DefaultWindow; w < domain.MinWindow || w > domain.MaxWindow {
		return fmt.Errorf("default window %d outside [%d, %d]", w, domain.MinWindow, domain.MaxWindow)
	}
	if strings.TrimSpace(c.Dashboard.DefaultTicker) == "" {
		return fmt.Errorf("default ticker is required")
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
