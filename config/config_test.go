package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsWorkerSections(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, 3, cfg.Outbox.RetryAttempts)
	assert.Equal(t, 7*24*time.Hour, cfg.Outbox.RetentionPeriod)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestConvertersCarryEverySetting(t *testing.T) {
	cfg := Config{
		Redis: RedisConfig{
			URL:          "redis://cache:6379",
			MaxRetries:   5,
			RetryBackoff: 250 * time.Millisecond,
			PoolSize:     20,
			MinIdleConns: 4,
		},
		Outbox: OutboxConfig{
			BatchSize:       50,
			PollInterval:    2 * time.Second,
			RetryAttempts:   4,
			RetryDelay:      time.Second,
			RetentionPeriod: 48 * time.Hour,
		},
	}

	broker := cfg.Redis.ToBrokerConfig()
	assert.Equal(t, "redis://cache:6379", broker.URL)
	assert.Equal(t, 5, broker.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, broker.RetryBackoff)
	assert.Equal(t, 20, broker.PoolSize)
	assert.Equal(t, 4, broker.MinIdleConns)

	processor := cfg.Outbox.ToWorkerConfig()
	assert.Equal(t, 50, processor.BatchSize)
	assert.Equal(t, 2*time.Second, processor.PollInterval)
	assert.Equal(t, 4, processor.RetryAttempts)
	assert.Equal(t, time.Second, processor.RetryDelay)
	assert.Equal(t, 48*time.Hour, processor.RetentionPeriod)
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_URL", "redis://cache.internal:6379")
	t.Setenv("WEBHOOK_SECRET", "from-env")

	cfg := Config{}
	cfg.Database.Host = "localhost"
	cfg.Redis.URL = "redis://localhost:6379"
	applyEnvOverrides(&cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "redis://cache.internal:6379", cfg.Redis.URL)
	assert.Equal(t, "from-env", cfg.Webhook.Secret)
}
