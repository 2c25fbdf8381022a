// Package config reads process configuration from the environment and
// builds the shared logger.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fortuna/games/internal/collect"
	"github.com/fortuna/games/internal/ingest/leaderboard"
)

type Config struct {
	APIBase     string
	HTTPTimeout time.Duration
	LogLevel    string
	RESTPort    string
	ErrorPolicy string

	// TraceEndpoint is an OTLP/HTTP traces URL. Empty disables export.
	TraceEndpoint string
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		APIBase:     GetEnv("GAMES_API_BASE", leaderboard.BaseURL),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		RESTPort:    GetEnv("REST_PORT", "8080"),
		ErrorPolicy: GetEnv("GAMES_ERROR_POLICY", collect.PolicyLegacy.String()),

		TraceEndpoint: GetEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ""),
	}

	timeout, err := time.ParseDuration(GetEnv("GAMES_HTTP_TIMEOUT", leaderboard.DefaultTimeout.String()))
	if err != nil {
		return cfg, fmt.Errorf("invalid GAMES_HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseLevel reads debug, info, warn, error or critical.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical":
		return collect.LevelCritical, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger returns a text logger writing to w at level. Records at
// collect.LevelCritical are labelled CRITICAL.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= collect.LevelCritical {
				a.Value = slog.StringValue("CRITICAL")
			}
			return a
		},
	}))
}
