package main

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config drží veškeré nastavení dashboardu.
// Dashboard se nepřipojuje k žádné databázi, jen se ptá Station API.
type Config struct {
	// HTTPPort: Port webového serveru (např. "3000").
	HTTPPort string

	// APIURL: Adresa Station API, např. "http://station-api:8080".
	APIURL string

	// PollInterval: Jak často se ptáme na poslední měření.
	PollInterval time.Duration

	// RequestTimeout: Timeout jednoho dotazu na API.
	RequestTimeout time.Duration

	// TemplateDir: Adresář s HTML šablonami.
	TemplateDir string

	LogLevel string
}

// LoadConfig načte konfiguraci z ENV proměnných.
func LoadConfig() Config {
	return Config{
		HTTPPort:       getEnv("HTTP_PORT", "3000"),
		APIURL:         strings.TrimRight(getEnv("API_URL", "http://station-api:8080"), "/"),
		PollInterval:   getDuration("POLL_INTERVAL", time.Second),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 3*time.Second),
		TemplateDir:    getEnv("TEMPLATE_DIR", "templates"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getDuration: nulová, záporná nebo nečitelná hodnota = fallback.
func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
