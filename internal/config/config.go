package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret string

	// APIKey protects the HTTP surface. Empty disables the check for
	// local single-user deployments.
	APIKey         string
	TrustedProxies []string

	// GuestStorePath is the file backing the local guest key-value store.
	GuestStorePath string

	// ItemsConfigPath points at the item catalog JSON.
	ItemsConfigPath string

	// InfoConfigDir holds the dashboard help content files.
	InfoConfigDir string

	// AutosaveDebounce is the quiet period before a scheduled snapshot
	// save fires.
	AutosaveDebounce time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "dev"),
		ServiceName:     getEnv("SERVICE_NAME", "slotdeck-server"),
		Version:         getEnv("VERSION", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LogDir:          getEnv("LOG_DIR", "logs"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "slotdeck"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		APIKey:          getEnv("API_KEY", ""),
		GuestStorePath:  getEnv("GUEST_STORE_PATH", "data/guest-store.json"),
		ItemsConfigPath: getEnv("ITEMS_CONFIG_PATH", "configs/items.json"),
		InfoConfigDir:   getEnv("INFO_CONFIG_DIR", "configs/info"),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(p))
		}
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	debounceStr := getEnv("AUTOSAVE_DEBOUNCE_MS", "2000")
	debounceMs, err := strconv.Atoi(debounceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTOSAVE_DEBOUNCE_MS value: %w", err)
	}
	cfg.AutosaveDebounce = time.Duration(debounceMs) * time.Millisecond

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set for security")
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
