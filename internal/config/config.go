// Package config reads process settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ServiceName string
	Env         string
	HTTPAddr    string
	LogLevel    string
	LogFile     string

	// DatabaseURL selects the Postgres store; empty runs on the in-memory store.
	DatabaseURL       string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration
	SeedStockOnCreate bool
	LowStockThreshold decimal.Decimal
	PageDefaultLimit  int
	PageMaxLimit      int
	OTLPEndpoint      string
	ShutdownTimeout   time.Duration
}

// Load reads files (default ".env") when present, then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return FromLookup(os.Getenv), nil
}

// FromLookup builds a Config from getenv. Malformed numbers and booleans fall
// back to their defaults.
func FromLookup(getenv func(string) string) Config {
	e := env(getenv)
	return Config{
		ServiceName:       e.str("SERVICE_NAME", "ledger"),
		Env:               e.str("ENV", "dev"),
		HTTPAddr:          e.str("HTTP_ADDR", ":8080"),
		LogLevel:          e.str("LOG_LEVEL", "info"),
		LogFile:           e.str("LOG_FILE", ""),
		DatabaseURL:       e.str("DATABASE_URL", ""),
		DBMaxConns:        int32(e.int("DB_MAX_CONNS", 10)),
		DBMinConns:        int32(e.int("DB_MIN_CONNS", 0)),
		DBMaxConnLifetime: time.Duration(e.int("DB_MAX_CONN_LIFETIME_SECONDS", 300)) * time.Second,
		SeedStockOnCreate: e.bool("SEED_STOCK_ON_CREATE", false),
		LowStockThreshold: e.decimal("LOW_STOCK_THRESHOLD", decimal.NewFromInt(5)),
		PageDefaultLimit:  e.int("PAGE_DEFAULT_LIMIT", 10),
		PageMaxLimit:      e.int("PAGE_MAX_LIMIT", 100),
		OTLPEndpoint:      e.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ShutdownTimeout:   time.Duration(e.int("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

type env func(string) string

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(e(key)))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func (e env) bool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(e(key)))
	if err != nil {
		return def
	}
	return v
}

func (e env) decimal(key string, def decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(e(key)))
	if err != nil || v.IsNegative() {
		return def
	}
	return v
}
