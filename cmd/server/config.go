package main

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/sleep-service/internal/adapters/sqlite"
	"github.com/quentinrf/sleep-service/pkg/tlsconfig"
)

// Config holds application configuration
type Config struct {
	Port            string
	RepoType        string // "memory" | "sqlite"
	DBDriver        string // "sqlite3" (cgo) | "sqlite" (pure Go)
	DBPath          string // SQLite database file path (used when RepoType=sqlite)
	SourceType      string // "mock"
	CacheLength     time.Duration
	PreferCache     bool
	PollInterval    time.Duration
	CleanupInterval time.Duration
	LogLevel        zerolog.Level
	TLS             tlsconfig.Files
}

// loadConfig reads configuration from environment variables.
// Unparseable values fall back to their defaults.
func loadConfig(getenv func(string) string) Config {
	return Config{
		Port:            stringOr(getenv("PORT"), "50052"),
		RepoType:        stringOr(getenv("REPO_TYPE"), "memory"),
		DBDriver:        stringOr(getenv("DB_DRIVER"), sqlite.DriverCGO),
		DBPath:          stringOr(getenv("DB_PATH"), "./sleep.db"),
		SourceType:      stringOr(getenv("SOURCE_TYPE"), "mock"),
		CacheLength:     durationOr(getenv, "CACHE_LENGTH", 7*24*time.Hour),
		PreferCache:     boolOr(getenv, "PREFER_CACHE", true),
		PollInterval:    durationOr(getenv, "POLL_INTERVAL", time.Minute),
		CleanupInterval: durationOr(getenv, "CLEANUP_INTERVAL", 24*time.Hour),
		LogLevel:        levelOr(getenv, "LOG_LEVEL", zerolog.InfoLevel),
		TLS: tlsconfig.Files{
			Cert: getenv("TLS_CERT"),
			Key:  getenv("TLS_KEY"),
			CA:   getenv("TLS_CA"),
		},
	}
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationOr(getenv func(string) string, key string, def time.Duration) time.Duration {
	v := getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}

func boolOr(getenv func(string) string, key string, def bool) bool {
	v := getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Bool("default", def).Msg("invalid boolean, using default")
		return def
	}
	return b
}

func levelOr(getenv func(string) string, key string, def zerolog.Level) zerolog.Level {
	v := getenv(key)
	if v == "" {
		return def
	}
	lvl, err := zerolog.ParseLevel(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid log level, using default")
		return def
	}
	return lvl
}
