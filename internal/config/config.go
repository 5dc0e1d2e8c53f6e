// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/orderwidget/internal/order"
	"github.com/mmynk/orderwidget/internal/zones"
)

type Config struct {
	Addr       string
	DBPath     string
	StaticPath string
	MenuPath   string

	// ZonesPath is an optional YAML zone catalog. Empty uses the built-in
	// zones.
	ZonesPath string

	JWTSecret  string
	ProfileTTL time.Duration
	Order      order.Config
	LogLevel   string
}

// Load reads envFile into the environment if it exists, then reads the
// settings. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	defaults := order.DefaultConfig()
	cfg := Config{
		Addr:       getenv("ADDR", ":8080"),
		DBPath:     getenv("DB_PATH", "./data/orderwidget.db"),
		StaticPath: getenv("STATIC_PATH", "./static"),
		MenuPath:   getenv("MENU_PATH", "./static/index.html"),
		ZonesPath:  os.Getenv("ZONES_PATH"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		ProfileTTL: getenvDuration("PROFILE_TTL", 365*24*time.Hour),
		Order: order.Config{
			Greeting:      getenv("ORDER_GREETING", defaults.Greeting),
			Phone:         getenv("ORDER_PHONE", defaults.Phone),
			FallbackDelay: getenvDuration("FALLBACK_DELAY", defaults.FallbackDelay),
		},
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	var problems []string
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.MenuPath == "" {
		problems = append(problems, "MENU_PATH is required")
	}
	if c.ProfileTTL <= 0 {
		problems = append(problems, "PROFILE_TTL must be positive")
	}
	if strings.TrimSpace(c.Order.Phone) == "" {
		problems = append(problems, "ORDER_PHONE is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Catalog returns the zone catalog from ZonesPath, or the built-in one.
func (c Config) Catalog() (*zones.Catalog, error) {
	if c.ZonesPath == "" {
		return zones.DefaultCatalog(), nil
	}
	return zones.LoadCatalog(c.ZonesPath)
}

func getenv(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Ignoring invalid duration", "key", key, "value", raw)
		return fallback
	}
	return d
}
