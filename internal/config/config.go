package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string

	// CatalogPath points at a YAML item catalog; empty means the built-in
	// default catalog.
	CatalogPath string

	// Event relay to RabbitMQ, off unless explicitly enabled.
	EventsEnabled bool
	RabbitURL     string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:        getenv("PORT", "8084"),
		CatalogPath: getenv("CATALOG_PATH", ""),

		EventsEnabled: getenv("EVENTS_ENABLED", "false") == "true",
		RabbitURL:     getenv("RABBITMQ_URL", ""),

		ReadTimeout:     parseDuration(getenv("READ_TIMEOUT", "5s"), 5*time.Second),
		WriteTimeout:    parseDuration(getenv("WRITE_TIMEOUT", "10s"), 10*time.Second),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
