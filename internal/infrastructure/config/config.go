package config

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level

	// SQL database: holds the catalog snapshot, and the records when
	// RecordStore is "sql".
	DBDriver string // "sqlite" or "postgres"
	DBDSN    string

	// Record store backing users, test series and results
	RecordStore    string // "sql" or "http"
	RecordStoreURL string // json-server base URL, e.g. "http://localhost:3001"
	SeedPath       string

	JWTSecret          string
	TokenTTL           time.Duration
	AdminSignupEnabled bool

	CORSOrigins            []string
	CatalogRefreshInterval time.Duration // 0 disables the refresh job
	SessionTick            time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:          mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:        mustGetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:               parseLevel(getenvDefault("LOG_LEVEL", "info")),
		DBDriver:               getenvDefault("DB_DRIVER", "sqlite"),
		DBDSN:                  os.Getenv("DB_DSN"),
		RecordStore:            getenvDefault("RECORD_STORE", "sql"),
		RecordStoreURL:         getenvDefault("RECORD_STORE_URL", "http://localhost:3001"),
		SeedPath:               getenvDefault("SEED_PATH", "db.json"),
		JWTSecret:              mustGetenv("JWT_SECRET"),
		TokenTTL:               getDurationDefault("TOKEN_TTL", 24*time.Hour),
		AdminSignupEnabled:     envBool("ADMIN_SIGNUP_ENABLED", false),
		CORSOrigins:            csvOr("CORS_ORIGINS", "http://localhost:5173"),
		CatalogRefreshInterval: getDurationDefault("CATALOG_REFRESH_INTERVAL", 0),
		SessionTick:            getDurationDefault("SESSION_TICK", time.Second),
	}

	switch cfg.RecordStore {
	case "sql", "http":
	default:
		log.Fatalf("config: RECORD_STORE=%q must be \"sql\" or \"http\"", cfg.RecordStore)
	}
	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func envBool(k string, fallback bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func csvOr(k, fallback string) []string {
	parts := strings.Split(getenvDefault(k, fallback), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		log.Fatalf("config: LOG_LEVEL=%q is not a valid level: %v", v, err)
	}
	return level
}
