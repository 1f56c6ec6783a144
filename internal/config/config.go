package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/agroclima/prediction-service/internal/station"
)

// AppConfig holds all runtime settings, loaded once at startup and
// passed by reference into the components that need it.
type AppConfig struct {
	Port string

	// Forecast horizon, fixed for every request.
	HorizonHours int

	// Historical window length in days.
	WindowDays int

	// Outbound HTTP client timeout for provider calls.
	HTTPTimeout time.Duration

	// Historical cache TTL; <= 0 disables caching.
	HistoryCacheTTL time.Duration

	// Cache-warm interval; <= 0 disables the warmer.
	WarmInterval time.Duration

	// Analysis fan-out settings.
	AnalysisMaxConcurrent int
	AnalysisTimeout       time.Duration

	// Reasoning service credential. Empty means degraded mode.
	GeminiAPIKey string
	GeminiModel  string

	// Station ids whose models are administratively disabled.
	DisabledModels map[string]bool

	Stations []station.Station
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:         getenvDefault("PORT", "8080"),
		HorizonHours: getenvInt("FORECAST_HORIZON_HOURS", 715),
		WindowDays:   getenvInt("HISTORICAL_WINDOW_DAYS", 30),

		AnalysisMaxConcurrent: getenvInt("ANALYSIS_MAX_CONCURRENT", 3),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenvDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		Stations: defaultStations(),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.HistoryCacheTTL, err = getenvDuration("HISTORY_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("HISTORY_WARM_INTERVAL", "0s"); err != nil {
		return nil, err
	}
	if cfg.AnalysisTimeout, err = getenvDuration("ANALYSIS_TIMEOUT", "45s"); err != nil {
		return nil, err
	}

	cfg.DisabledModels = make(map[string]bool)
	for _, id := range strings.Split(os.Getenv("DISABLED_MODELS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.DisabledModels[id] = true
		}
	}

	if cfg.HorizonHours <= 0 {
		return nil, fmt.Errorf("FORECAST_HORIZON_HOURS must be positive, got %d", cfg.HorizonHours)
	}
	if cfg.WindowDays <= 0 {
		return nil, fmt.Errorf("HISTORICAL_WINDOW_DAYS must be positive, got %d", cfg.WindowDays)
	}

	return cfg, nil
}

// GeminiConfigured reports whether the reasoning service has a credential.
func (c *AppConfig) GeminiConfigured() bool {
	return c.GeminiAPIKey != ""
}

// defaultStations is the static registry of known stations.
func defaultStations() []station.Station {
	return []station.Station{
		{ID: "M5023", Coordinate: station.Coordinate{Latitude: -0.3798, Longitude: -78.1959}, Kind: station.KindMeteorological},
		{ID: "M5025", Coordinate: station.Coordinate{Latitude: -0.3337, Longitude: -78.1985}, Kind: station.KindMeteorological},
		{ID: "P34", Coordinate: station.Coordinate{Latitude: -0.3809, Longitude: -78.1411}, Kind: station.KindPluviometric},
		{ID: "P63", Coordinate: station.Coordinate{Latitude: -0.3206, Longitude: -78.1917}, Kind: station.KindPluviometric},
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
