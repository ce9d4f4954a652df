package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DataSource  string
	TestName    string
	Port        int
	Token       string
	HTTPTimeout time.Duration
	LogLevel    string
}

// FromEnv reads defaults for every CLI flag from GC_* environment variables.
func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("GC_HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	port := 8080
	if p := os.Getenv("GC_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}
	return Config{
		DataSource:  envOr("GC_DATA", "./data.json"),
		TestName:    os.Getenv("GC_TEST"),
		Port:        port,
		Token:       os.Getenv("GC_TOKEN"),
		HTTPTimeout: to,
		LogLevel:    envOr("GC_LOG_LEVEL", "warn"),
	}
}

// ParseLevel maps a level name to a slog level, defaulting to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
