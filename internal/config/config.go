package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Store   StoreConfig   `mapstructure:"store" validate:"required"`
	Notify  NotifyConfig  `mapstructure:"notify" validate:"required"`
	Tracker TrackerConfig `mapstructure:"tracker" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects and configures the event record backend.
type StoreConfig struct {
	// Driver is one of memory, file, postgres, sqlite or redis.
	Driver string `mapstructure:"driver" validate:"required,oneof=memory file postgres sqlite redis"`

	// Dir holds one <eventID>.json file per record for the file driver.
	Dir string `mapstructure:"dir" validate:"required_if=Driver file"`

	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres,omitempty,url"`

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`

	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Driver redis,omitempty,hostname_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

// NotifyConfig selects and configures the notification channel.
// Transport credentials come from the environment, never from code.
type NotifyConfig struct {
	// Channel is one of log, email or kafka.
	Channel string `mapstructure:"channel" validate:"required,oneof=log email kafka"`

	// FromAddress is the sender address used by the email channel.
	FromAddress string `mapstructure:"from_address" validate:"required_if=Channel email,omitempty,email"`
	AWSRegion   string `mapstructure:"aws_region"`
	// RatePerSecond caps outgoing emails; zero disables the limit.
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gte=0"`

	KafkaBrokers []string `mapstructure:"kafka_brokers" validate:"required_if=Channel kafka"`
	KafkaTopic   string   `mapstructure:"kafka_topic" validate:"required_if=Channel kafka"`

	// Timeout bounds a single delivery attempt.
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	WorkerCount int           `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int           `mapstructure:"queue_size" validate:"gt=0"`
}

// TrackerConfig contains lifecycle tracker settings.
type TrackerConfig struct {
	// OperationTimeout bounds each store call made by the tracker.
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"gt=0"`
}
