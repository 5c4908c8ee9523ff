package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CacheDir holds the on-disk copy of the source table.
	CacheDir string

	// Refresh notifications. Disabled when KafkaBrokers is empty.
	KafkaBrokers      []string
	KafkaRefreshTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		CacheDir:          sharedcfg.EnvOrDefault("CACHE_DIR", "cache"),
		KafkaBrokers:      brokers,
		KafkaRefreshTopic: sharedcfg.EnvOrDefault("KAFKA_REFRESH_TOPIC", "labour-dataset-refreshed"),
	}

	if cfg.CacheDir == "" {
		return nil, errors.New("CACHE_DIR is required")
	}
	if cfg.NotifyEnabled() && cfg.KafkaRefreshTopic == "" {
		return nil, errors.New("KAFKA_REFRESH_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// NotifyEnabled reports whether dataset refreshes are published to Kafka.
func (c *Config) NotifyEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
