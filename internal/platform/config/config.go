// Package config builds process configuration from environment variables so
// main stays lean. Values are read once at startup and never mutated.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the match server needs to wire itself.
type Config struct {
	Addr string

	// Search backend selection: "elasticsearch" (default) or "memory".
	Backend string

	Elasticsearch Elasticsearch
	Redis         Redis
	Kafka         Kafka

	// BatchSize bounds how many records are matched concurrently in one
	// batch chunk.
	BatchSize int
	// PageSize caps hits returned by a single backend query.
	PageSize int
	// ResultLimit caps fused matches returned per record.
	ResultLimit int

	CacheTTL time.Duration

	// AdminJWTSigningKey guards /admin endpoints; empty leaves them open
	// (development only).
	AdminJWTSigningKey string
}

// Elasticsearch holds connection settings for the companies index.
type Elasticsearch struct {
	Node           string
	Index          string
	RequestTimeout time.Duration
}

// Redis holds match result cache settings. Empty URL disables the cache.
type Redis struct {
	URL string
}

// Kafka holds match event publishing settings. Empty brokers disable events.
type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables with sane defaults.
func FromEnv() Config {
	return Config{
		Addr:    getenv("MATCH_ADDR", ":8080"),
		Backend: getenv("MATCH_BACKEND", "elasticsearch"),
		Elasticsearch: Elasticsearch{
			Node:           getenv("ELASTICSEARCH_NODE", "http://localhost:9200"),
			Index:          getenv("ELASTICSEARCH_INDEX", "companies"),
			RequestTimeout: getduration("ELASTICSEARCH_REQUEST_TIMEOUT", 60*time.Second),
		},
		Redis: Redis{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_MATCH_TOPIC", "company.match.completed"),
		},
		BatchSize:          getint("MATCH_BATCH_SIZE", 10),
		PageSize:           getint("MATCH_PAGE_SIZE", 10),
		ResultLimit:        getint("MATCH_RESULT_LIMIT", 10),
		CacheTTL:           getduration("MATCH_CACHE_TTL", 5*time.Minute),
		AdminJWTSigningKey: os.Getenv("ADMIN_JWT_SIGNING_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
