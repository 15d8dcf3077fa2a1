package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr     string
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string
	ServiceName  string
	LogLevel     string

	// remote catalog/settings service
	RemoteBaseURL       string
	RemoteToken         string
	RemoteTimeout       time.Duration
	ContactSettingsPath string

	CatalogCacheTTL time.Duration

	InvalidatorGroup   string
	InvalidatorWorkers int
}

// Load reads the configuration from the environment. An empty POSTGRES_DSN
// disables Postgres; REDIS_ADDR=off and KAFKA_BROKERS=off disable Redis and
// Kafka.
func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		RedisAddr:    optional("REDIS_ADDR", "redis:6379"),
		KafkaBrokers: splitCSV(optional("KAFKA_BROKERS", "kafka:9092")),
		ServiceName:  getenv("SERVICE_NAME", "storefront-api"),
		LogLevel:     getenv("LOG_LEVEL", "info"),

		RemoteBaseURL:       os.Getenv("REMOTE_BASE_URL"),
		RemoteToken:         os.Getenv("REMOTE_TOKEN"),
		RemoteTimeout:       getduration("REMOTE_TIMEOUT", 0),
		ContactSettingsPath: getenv("CONTACT_SETTINGS_PATH", "/api/user/nombrecomercio"),

		CatalogCacheTTL: getduration("CATALOG_CACHE_TTL", 2*time.Minute),

		InvalidatorGroup:   getenv("INVALIDATOR_GROUP", "catalog-invalidator"),
		InvalidatorWorkers: getint("INVALIDATOR_WORKERS", 4),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func optional(k, def string) string {
	if v := getenv(k, def); v != "off" {
		return v
	}
	return ""
}

func getint(k string, def int) int {
	i, err := strconv.Atoi(os.Getenv(k))
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func getduration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
