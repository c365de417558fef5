// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server binary needs to wire the pipeline.
type Config struct {
	Addr string

	// PostgresDSN is empty in local runs; stores fall back to memory.
	PostgresDSN string

	// RedisURL is empty in local runs; observation retention and trace
	// caching fall back to memory / no cache.
	RedisURL string

	// KafkaBrokers is empty in local runs; onboarding notifications are
	// captured in memory.
	KafkaBrokers []string

	// AnonymizationSecret keys the investor token derivation. Stable per
	// environment so the same investor always maps to the same token.
	AnonymizationSecret string

	// ObservationRetention bounds how long oracle observations are kept.
	ObservationRetention time.Duration

	// TraceCacheTTL bounds how long composed traces are served from cache.
	TraceCacheTTL time.Duration
}

// FromEnv builds a Config from AGROTRACE_* environment variables with
// development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:                 envOr("AGROTRACE_ADDR", ":8080"),
		PostgresDSN:          os.Getenv("AGROTRACE_POSTGRES_DSN"),
		RedisURL:             os.Getenv("AGROTRACE_REDIS_URL"),
		AnonymizationSecret:  envOr("AGROTRACE_ANON_SECRET", "dev-anon-secret-change-in-production"),
		ObservationRetention: durationOr("AGROTRACE_OBSERVATION_RETENTION", 90*24*time.Hour),
		TraceCacheTTL:        durationOr("AGROTRACE_TRACE_CACHE_TTL", 5*time.Minute),
	}
	if brokers := os.Getenv("AGROTRACE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
