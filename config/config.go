package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port string
	Env  string

	DBDriver   string
	SQLitePath string

	TaxRate         decimal.Decimal
	BillRoundPlaces int32

	LockBackend   string
	LockTimeout   time.Duration
	LockTTL       time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NodeID      int64
	CORSOrigins []string
	SeedRooms   bool
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// Load reads the configuration. Call godotenv.Load first if a .env file
// should be honoured.
func Load() (Config, error) {
	cfg := Config{
		Port:          envOrDefault("PORT", "8080"),
		Env:           strings.ToLower(envOrDefault("APP_ENV", "dev")),
		DBDriver:      strings.ToLower(envOrDefault("DB_DRIVER", DriverSQLite)),
		SQLitePath:    envOrDefault("SQLITE_PATH", "file:frontdesk?mode=memory&cache=shared"),
		LockBackend:   strings.ToLower(envOrDefault("LOCK_BACKEND", LockBackendLocal)),
		RedisAddr:     envOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CORSOrigins:   parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.TaxRate, err = decimal.NewFromString(envOrDefault("TAX_RATE", "12")); err != nil {
		return Config{}, fmt.Errorf("TAX_RATE: %w", err)
	}
	if cfg.TaxRate.IsNegative() {
		return Config{}, fmt.Errorf("TAX_RATE: must be >= 0")
	}

	places, err := strconv.ParseInt(envOrDefault("BILL_ROUND_PLACES", "0"), 10, 32)
	// bill amounts are stored with two decimal places
	if err != nil || places < 0 || places > 2 {
		return Config{}, fmt.Errorf("BILL_ROUND_PLACES: invalid value %q", os.Getenv("BILL_ROUND_PLACES"))
	}
	cfg.BillRoundPlaces = int32(places)

	if cfg.LockTimeout, err = time.ParseDuration(envOrDefault("LOCK_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("LOCK_TIMEOUT: %w", err)
	}
	if cfg.LockTTL, err = time.ParseDuration(envOrDefault("LOCK_TTL", "30s")); err != nil {
		return Config{}, fmt.Errorf("LOCK_TTL: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(envOrDefault("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.NodeID, err = strconv.ParseInt(envOrDefault("NODE_ID", "1"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("NODE_ID: %w", err)
	}
	if cfg.SeedRooms, err = strconv.ParseBool(envOrDefault("SEED_ROOMS", "true")); err != nil {
		return Config{}, fmt.Errorf("SEED_ROOMS: %w", err)
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}
	switch cfg.LockBackend {
	case LockBackendLocal, LockBackendRedis:
	default:
		return Config{}, fmt.Errorf("LOCK_BACKEND: unsupported backend %q", cfg.LockBackend)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
