package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/clinovia/portal-api/pkg/messaging/redis"
	"github.com/clinovia/portal-api/pkg/worker"
)

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"sslmode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
}

type WebhookConfig struct {
	// Secret signs the auth provider's webhook JWTs (HS256).
	Secret string `yaml:"secret"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
}

type OutboxConfig struct {
	BatchSize       int           `yaml:"batch_size"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	RetryAttempts   int           `yaml:"retry_attempts"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	RetentionPeriod time.Duration `yaml:"retention_period"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	PortalURL string `yaml:"portal_url"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Redis     RedisConfig     `yaml:"redis"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	// Booleans can't be defaulted after unmarshal, an absent key and an
	// explicit false are indistinguishable there.
	viper.SetDefault("rate_limit.enabled", true)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	return &config, nil
}

// applyEnvOverrides lets deployment env vars win over the config file for
// the handful of values that differ per environment.
func applyEnvOverrides(config *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		config.Database.Port, _ = strconv.Atoi(port)
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Redis.URL = url
	}
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		config.Webhook.Secret = secret
	}
	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		config.SMTP.Password = password
	}
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 15 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 15 * time.Second
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 30 * time.Second
	}
	if config.Database.MaxOpenConns == 0 {
		config.Database.MaxOpenConns = 25
	}
	if config.Database.MaxIdleConns == 0 {
		config.Database.MaxIdleConns = 5
	}
	if config.RateLimit.RequestsPerSecond == 0 {
		config.RateLimit.RequestsPerSecond = 20
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = 40
	}
	if config.Redis.URL == "" {
		config.Redis.URL = "redis://localhost:6379"
	}
	if config.Redis.MaxRetries == 0 {
		config.Redis.MaxRetries = 3
	}
	if config.Redis.RetryBackoff == 0 {
		config.Redis.RetryBackoff = 100 * time.Millisecond
	}
	if config.Redis.PoolSize == 0 {
		config.Redis.PoolSize = 10
	}
	if config.Redis.MinIdleConns == 0 {
		config.Redis.MinIdleConns = 2
	}
	if config.Outbox.BatchSize == 0 {
		config.Outbox.BatchSize = 100
	}
	if config.Outbox.PollInterval == 0 {
		config.Outbox.PollInterval = 5 * time.Second
	}
	if config.Outbox.RetryAttempts == 0 {
		config.Outbox.RetryAttempts = 3
	}
	if config.Outbox.RetryDelay == 0 {
		config.Outbox.RetryDelay = 5 * time.Second
	}
	if config.Outbox.RetentionPeriod == 0 {
		config.Outbox.RetentionPeriod = 7 * 24 * time.Hour
	}
	if config.SMTP.Port == 0 {
		config.SMTP.Port = 587
	}
}

func (c *OutboxConfig) ToWorkerConfig() worker.OutboxProcessorConfig {
	return worker.OutboxProcessorConfig{
		BatchSize:       c.BatchSize,
		PollInterval:    c.PollInterval,
		RetryAttempts:   c.RetryAttempts,
		RetryDelay:      c.RetryDelay,
		RetentionPeriod: c.RetentionPeriod,
	}
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
