package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	CacheNone     = "none"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"

	ProviderNominatim = "nominatim"
	ProviderOSRM      = "osrm"
	ProviderORS       = "ors"
)

type Config struct {
	Port     string
	AppEnv   string
	Location *time.Location

	CacheBackend  string
	CacheTTL      time.Duration
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SeedPath      string

	Geocoder       string
	Router         string
	ORSAPIKey      string
	ORSURL         string
	ORSProfile     string
	NominatimURL   string
	CountryCodes   string
	Language       string
	UserAgent      string
	OSRMURL        string
	OSRMProfile    string
	HTTPTimeout    time.Duration
	SuggestDelay   time.Duration
	SuggestMinLen  int
	SuggestLimit   int
	AllowedOrigins []string
}

// LoadDotEnv loads path into the process environment. A missing file is not
// an error; it reports whether a file was loaded.
func LoadDotEnv(path string) (bool, error) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          Get("PORT", "8080"),
		AppEnv:        Get("APP_ENV", "development"),
		CacheBackend:  strings.ToLower(Get("CACHE_BACKEND", CacheSQLite)),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SeedPath:      os.Getenv("SEED_PATH"),
		NominatimURL:  Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		CountryCodes:  Get("NOMINATIM_COUNTRY_CODES", "in"),
		Language:      Get("NOMINATIM_LANGUAGE", "en"),
		UserAgent:     Get("USER_AGENT", "ShadeSeat/1.0 (seat-side recommendation service)"),
		OSRMURL:       Get("OSRM_URL", "https://router.project-osrm.org"),
		OSRMProfile:   Get("OSRM_PROFILE", "driving"),
		Geocoder:      strings.ToLower(Get("GEOCODER", ProviderNominatim)),
		Router:        strings.ToLower(Get("ROUTER", ProviderOSRM)),
		ORSAPIKey:     os.Getenv("ORS_API_KEY"),
		ORSURL:        Get("ORS_URL", "https://api.openrouteservice.org"),
		ORSProfile:    Get("ORS_PROFILE", "driving-car"),
	}

	if cfg.Geocoder != ProviderNominatim && cfg.Geocoder != ProviderORS {
		return nil, fmt.Errorf("GEOCODER: unknown provider %q", cfg.Geocoder)
	}
	if cfg.Router != ProviderOSRM && cfg.Router != ProviderORS {
		return nil, fmt.Errorf("ROUTER: unknown provider %q", cfg.Router)
	}
	if (cfg.Geocoder == ProviderORS || cfg.Router == ProviderORS) && strings.TrimSpace(cfg.ORSAPIKey) == "" {
		return nil, errors.New("ORS_API_KEY is required when GEOCODER=ors or ROUTER=ors")
	}

	tz := Get("TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	switch cfg.CacheBackend {
	case CacheNone, CacheSQLite, CacheRedis:
	case CachePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("CACHE_BACKEND: unknown backend %q", cfg.CacheBackend)
	}

	ttlHours, err := GetInt("CACHE_TTL_HOURS", 24*30)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlHours) * time.Hour

	if cfg.RedisDB, err = GetInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	timeoutSec, err := GetInt("HTTP_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS: must be positive, got %d", timeoutSec)
	}
	cfg.HTTPTimeout = time.Duration(timeoutSec) * time.Second

	delayMS, err := GetInt("SUGGEST_DEBOUNCE_MS", 350)
	if err != nil {
		return nil, err
	}
	cfg.SuggestDelay = time.Duration(delayMS) * time.Millisecond

	if cfg.SuggestMinLen, err = GetInt("SUGGEST_MIN_CHARS", 3); err != nil {
		return nil, err
	}
	if cfg.SuggestLimit, err = GetInt("SUGGEST_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.SuggestLimit < 1 || cfg.SuggestLimit > 50 {
		return nil, fmt.Errorf("SUGGEST_LIMIT: must be between 1 and 50, got %d", cfg.SuggestLimit)
	}

	cfg.AllowedOrigins = splitAndTrim(os.Getenv("ALLOWED_ORIGINS"))

	return cfg, nil
}

// Get returns the environment value for key or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt parses an integer environment value, naming the key on failure.
func GetInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitAndTrim(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
