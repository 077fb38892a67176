// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	YouTube  YouTubeConfig
	Sync     SyncConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	LLM      LLMConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	AllowOrigins    []string

	// WriteTimeout must cover a full sync run, which blocks the request.
	WriteTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// YouTubeConfig contains YouTube Data API credentials.
type YouTubeConfig struct {
	APIKey string
}

// SyncConfig contains the statistics sync settings.
type SyncConfig struct {
	// ChannelID is the single channel every sync run targets.
	ChannelID string
}

// RedisConfig contains the optional channel-name cache settings.
// An empty URL disables the cache.
type RedisConfig struct {
	URL            string
	ChannelNameTTL time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration.
// Publishing is disabled when Host is empty.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// LLMConfig contains the chat completion endpoint settings.
// The chatbot is disabled when APIKey is empty.
type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	bindEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("youtube.apikey is required")
	}
	if c.Sync.ChannelID == "" {
		return fmt.Errorf("sync.channelid is required")
	}
	return nil
}

// DSN returns the PostgreSQL connection string for the database section.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AutomaticEnv does not reach nested keys during Unmarshal, so the
// secrets and per-deployment values are bound explicitly.
func bindEnv() {
	for key, env := range map[string]string{
		"server.port":       "APP_SERVER_PORT",
		"database.host":     "APP_DATABASE_HOST",
		"database.port":     "APP_DATABASE_PORT",
		"database.name":     "APP_DATABASE_NAME",
		"database.user":     "APP_DATABASE_USER",
		"database.password": "APP_DATABASE_PASSWORD",
		"youtube.apikey":    "APP_YOUTUBE_APIKEY",
		"sync.channelid":    "APP_SYNC_CHANNELID",
		"redis.url":         "APP_REDIS_URL",
		"rabbitmq.host":     "APP_RABBITMQ_HOST",
		"llm.apikey":        "APP_LLM_APIKEY",
		"llm.baseurl":       "APP_LLM_BASEURL",
		"logging.level":     "APP_LOGGING_LEVEL",
	} {
		_ = viper.BindEnv(key, env)
	}
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.writetimeout", 5*time.Minute)
	viper.SetDefault("server.alloworigins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "shorts_analytics")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 2)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// YouTube / sync
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("sync.channelid", "")

	// Redis
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.channelnamettl", 24*time.Hour)

	// RabbitMQ
	viper.SetDefault("rabbitmq.host", "")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "shorts.analytics")
	viper.SetDefault("rabbitmq.queue", "shorts.analytics.sync-runs")
	viper.SetDefault("rabbitmq.routingkey", "sync.completed")

	// LLM
	viper.SetDefault("llm.baseurl", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.apikey", "")
	viper.SetDefault("llm.timeout", 60*time.Second)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
