package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// OpenWeatherAPIKey seeds the settings store when it holds no key yet.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	DefaultLocation string
	// DisplayTimeZone renders sunrise/sunset and decides the snapshot calendar day.
	DisplayTimeZone *time.Location

	// Key-value store backend: memory, sqlite or redis.
	StoreBackend   string
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	HistoryMaxDays int

	CurrentRefreshInterval time.Duration
	CurrentStaleAfter      time.Duration
	ForecastStaleAfter     time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:               getenvDefault("PORT", "8080"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		DefaultLocation:    getenvDefault("DEFAULT_LOCATION", weather.DefaultLocation),
		StoreBackend:       strings.ToLower(getenvDefault("STORE_BACKEND", "sqlite")),
		SQLitePath:         getenvDefault("SQLITE_PATH", "climate.db"),
		RedisAddr:          getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisKeyPrefix:     getenvDefault("REDIS_KEY_PREFIX", "climate:"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		LogFormat:          getenvDefault("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxDays, err = getenvInt("HISTORY_MAX_DAYS", weather.DefaultHistoryDays); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CurrentRefreshInterval, err = getenvDuration("CURRENT_REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.CurrentStaleAfter, err = getenvDuration("CURRENT_STALE_AFTER", "10m"); err != nil {
		return nil, err
	}
	if cfg.ForecastStaleAfter, err = getenvDuration("FORECAST_STALE_AFTER", "30m"); err != nil {
		return nil, err
	}

	tzName := getenvDefault("DISPLAY_TIMEZONE", "Local")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	cfg.DisplayTimeZone = tz

	switch cfg.StoreBackend {
	case "memory", "sqlite", "redis":
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want memory, sqlite or redis", cfg.StoreBackend)
	}
	if cfg.HistoryMaxDays <= 0 {
		return nil, fmt.Errorf("HISTORY_MAX_DAYS must be positive")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
