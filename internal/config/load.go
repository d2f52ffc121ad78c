package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. MCT_SERVER_PORT or MCT_STORE_DRIVER.
const EnvPrefix = "MCT"

// defaults lists every configuration key with its default value. Viper only
// maps environment variables onto keys it knows about, so every key must
// appear here; nil means the key is bound without a default.
var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.shutdown_timeout": "10s",

	"store.driver":         "file",
	"store.dir":            ".",
	"store.database_url":   "",
	"store.sqlite_path":    "mct.db",
	"store.redis_addr":     "",
	"store.redis_password": "",
	"store.redis_db":       0,
	"store.redis_prefix":   "mct",

	"notify.channel":         "log",
	"notify.from_address":    "",
	"notify.aws_region":      "",
	"notify.rate_per_second": 0,
	"notify.kafka_brokers":   nil,
	"notify.kafka_topic":     "",
	"notify.timeout":         "5s",
	"notify.worker_count":    2,
	"notify.queue_size":      100,

	"tracker.operation_timeout": "5s",
}

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory. Environment variables take precedence over
// values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
		if value != nil {
			v.SetDefault(key, value)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
